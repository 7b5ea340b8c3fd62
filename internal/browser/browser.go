package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"missionctl/internal/sentinel"
)

// ErrUnsupportedPlatform is returned when no opener command is known for the
// running platform.
const ErrUnsupportedPlatform = sentinel.Error("no URL opener for this platform")

// openerArgs returns the platform command that hands url to the default
// handler.
func openerArgs(goos, url string) ([]string, error) {
	switch goos {
	case "linux":
		return []string{"xdg-open", url}, nil
	case "darwin":
		return []string{"open", url}, nil
	case "windows":
		// start must go through cmd; the empty argument fills the window
		// title slot so the URL is not mistaken for one.
		return []string{"cmd", "/c", "start", "", url}, nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// Open hands url to the OS default handler. The opener process is spawned
// and reaped in the background; Open does not wait for it to finish.
func Open(url string) error {
	argv, err := openerArgs(runtime.GOOS, url)
	if err != nil {
		return err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", argv[0], err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
