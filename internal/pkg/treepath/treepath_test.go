package treepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, raw := range []string{"000", "001", "999", "001000", "001002003"} {
		p, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Path(raw), p)
	}

	for _, raw := range []string{"", "0", "00", "0000", "00a", "001-02", "01"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestLevelMatchesWidthInvariant(t *testing.T) {
	cases := map[Path]int{
		"000":       0,
		"017":       0,
		"001001":    1,
		"001002003": 2,
	}
	for p, level := range cases {
		assert.Equal(t, level, p.Level(), p)
		assert.Len(t, string(p), (level+1)*GroupWidth, p)
	}
}

func TestParent(t *testing.T) {
	assert.Equal(t, Path("001"), Path("001002").Parent())
	assert.Equal(t, Path("001002"), Path("001002003").Parent())
	assert.Equal(t, Path(""), Path("001").Parent())
	assert.True(t, Path("001").IsRoot())
	assert.False(t, Path("001002").IsRoot())
}

func TestIsAncestorOf(t *testing.T) {
	assert.True(t, Path("001").IsAncestorOf("001000"))
	assert.True(t, Path("001").IsAncestorOf("001002003"))
	assert.False(t, Path("001").IsAncestorOf("001"))
	assert.False(t, Path("001").IsAncestorOf("002001"))
	assert.False(t, Path("001002").IsAncestorOf("001"))
}

func TestNext(t *testing.T) {
	next, err := Path("000").Next()
	require.NoError(t, err)
	assert.Equal(t, Path("001"), next)

	next, err = Path("001041").Next()
	require.NoError(t, err)
	assert.Equal(t, Path("001042"), next)

	_, err = Path("999").Next()
	assert.Error(t, err)
}

func TestChild(t *testing.T) {
	c, err := Child("001", 5)
	require.NoError(t, err)
	assert.Equal(t, Path("001005"), c)

	first, err := Path("001").FirstChild()
	require.NoError(t, err)
	assert.Equal(t, Path("001001"), first)

	_, err = Child("001", 1000)
	assert.Error(t, err)
	_, err = Child("001", -1)
	assert.Error(t, err)
}

func TestLastIndex(t *testing.T) {
	assert.Equal(t, 0, Path("000").LastIndex())
	assert.Equal(t, 42, Path("001042").LastIndex())
	assert.Equal(t, 999, Path("999").LastIndex())
}

func TestRoot(t *testing.T) {
	p, err := Root(0)
	require.NoError(t, err)
	assert.Equal(t, Path("000"), p)

	p, err = Root(12)
	require.NoError(t, err)
	assert.Equal(t, Path("012"), p)

	_, err = Root(1000)
	assert.Error(t, err)
}
