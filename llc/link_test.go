package llc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeLinkArgsLinux(t *testing.T) {
	objs := []string{"obj/util.o", "obj/main.o"}

	primary := composeLinkArgs("linux", 0, "app", objs, false)
	assert.Equal(t, []string{"-pie", "-o", "app", "obj/util.o", "obj/main.o"}, primary)

	fallback := composeLinkArgs("linux", 0, "app", objs, true)
	assert.Equal(t, []string{"-no-pie", "-o", "app", "obj/util.o", "obj/main.o"}, fallback)
}

func TestComposeLinkArgsOptLevel(t *testing.T) {
	args := composeLinkArgs("linux", 2, "app", []string{"a.o"}, false)
	assert.Equal(t, []string{"-O2", "-pie", "-o", "app", "a.o"}, args)

	// Level 0 adds no -O flag.
	args = composeLinkArgs("linux", 0, "app", []string{"a.o"}, false)
	assert.NotContains(t, args, "-O0")
}

func TestComposeLinkArgsDarwin(t *testing.T) {
	primary := composeLinkArgs("darwin", 1, "app", []string{"a.o"}, false)
	assert.Equal(t, []string{"-O1", "-Wl,-dead_strip", "-o", "app", "a.o"}, primary)

	// The darwin fallback keeps dead stripping rather than dropping PIE.
	fallback := composeLinkArgs("darwin", 1, "app", []string{"a.o"}, true)
	assert.Contains(t, fallback, "-Wl,-dead_strip")
	assert.NotContains(t, fallback, "-no-pie")
}
