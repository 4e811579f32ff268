package env

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetReplacesExisting(t *testing.T) {
	environ := []string{"HOME=/home/u", "JAVA_HOME=/old/jdk"}

	out := Set(environ, "JAVA_HOME", "/opt/jdk-17")

	v, ok := Lookup(out, "JAVA_HOME")
	assert.True(t, ok)
	assert.Equal(t, "/opt/jdk-17", v)

	// No duplicate entries left behind
	count := 0
	for _, kv := range out {
		if kv == "JAVA_HOME=/opt/jdk-17" || kv == "JAVA_HOME=/old/jdk" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSetAddsMissing(t *testing.T) {
	out := Set([]string{"HOME=/home/u"}, "VIRTUAL_ENV", "/srv/venv")

	v, ok := Lookup(out, "VIRTUAL_ENV")
	assert.True(t, ok)
	assert.Equal(t, "/srv/venv", v)
}

func TestUnset(t *testing.T) {
	environ := []string{"PYTHONHOME=/usr", "HOME=/home/u"}

	out := Unset(environ, "PYTHONHOME")

	_, ok := Lookup(out, "PYTHONHOME")
	assert.False(t, ok)
	assert.Len(t, out, 1)
}

func TestLookupLastEntryWins(t *testing.T) {
	environ := []string{"KEY=first", "KEY=second"}

	v, ok := Lookup(environ, "KEY")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	environ := []string{"PATH=/usr/bin" + sep + "/bin"}

	out := PrependPath(environ, "/opt/jdk-17/bin")

	v, _ := Lookup(out, "PATH")
	assert.Equal(t, "/opt/jdk-17/bin"+sep+"/usr/bin"+sep+"/bin", v)
}

func TestPrependPathCreatesMissingPath(t *testing.T) {
	out := PrependPath([]string{"HOME=/home/u"}, "/srv/venv/bin")

	v, ok := Lookup(out, "PATH")
	assert.True(t, ok)
	assert.Equal(t, "/srv/venv/bin", v)
}

func TestPrependPathAlreadyFirst(t *testing.T) {
	sep := string(os.PathListSeparator)
	environ := []string{"PATH=/srv/venv/bin" + sep + "/usr/bin"}

	out := PrependPath(environ, "/srv/venv/bin")

	v, _ := Lookup(out, "PATH")
	assert.Equal(t, "/srv/venv/bin"+sep+"/usr/bin", v)
}

func TestPrependPathDropsDuplicates(t *testing.T) {
	sep := string(os.PathListSeparator)
	environ := []string{"PATH=/usr/bin" + sep + "/opt/jdk/bin" + sep + "/bin"}

	out := PrependPath(environ, "/opt/jdk/bin")

	v, _ := Lookup(out, "PATH")
	assert.Equal(t, "/opt/jdk/bin"+sep+"/usr/bin"+sep+"/bin", v)
}
