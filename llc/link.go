package llc

import (
	"fmt"
	"os/exec"
	"runtime"
)

// composeLinkArgs builds the argument list for one link attempt.  The
// fallback attempt differs per platform: on darwin it is simply the fallback
// compiler, elsewhere it retries without position independence.
func composeLinkArgs(goos string, optLevel int, executableName string, objPaths []string, fallback bool) []string {
	var args []string

	if optLevel > 0 {
		args = append(args, fmt.Sprintf("-O%d", optLevel))
	}

	if goos == "darwin" {
		args = append(args, "-Wl,-dead_strip")
	} else if fallback {
		args = append(args, "-no-pie")
	} else {
		args = append(args, "-pie")
	}

	args = append(args, "-o", executableName)
	return append(args, objPaths...)
}

// runLink runs one link attempt with the named compiler.
func runLink(compiler string, args []string) error {
	path, err := exec.LookPath(compiler)
	if err != nil {
		return fmt.Errorf("cannot find %s: %s", compiler, err)
	}

	cmd := exec.Command(path, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %s\n%s", compiler, err, out)
	}

	return nil
}

// LinkExecutable links the object files into an executable named
// executableName, resolved against the working directory.  The primary attempt uses cc; on failure the command is
// retried with gcc (and -no-pie outside darwin).  On darwin the result is
// stripped of local symbols.
func LinkExecutable(objPaths []string, executableName string, optLevel int) error {
	primary := composeLinkArgs(runtime.GOOS, optLevel, executableName, objPaths, false)
	if err := runLink("cc", primary); err != nil {
		alt := composeLinkArgs(runtime.GOOS, optLevel, executableName, objPaths, true)
		if altErr := runLink("gcc", alt); altErr != nil {
			return fmt.Errorf("linker failed on both attempts: %s; %s", err, altErr)
		}
	}

	if runtime.GOOS == "darwin" {
		// Best effort, as in every toolchain that shells out to strip.
		if strip, err := exec.LookPath("strip"); err == nil {
			exec.Command(strip, "-x", executableName).Run()
		}
	}

	return nil
}
