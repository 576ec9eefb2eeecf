package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/chukul/tclctl/internal/ui"
)

// target is the account and device a command works on, merged from the
// stored profile, the environment and flags (later wins).
type target struct {
	profile  string
	username string
	region   string
	deviceID string
}

func resolveTarget() (target, error) {
	t := target{profile: profileName}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return t, err
	}
	if p, err := cfg.Profile(profileName); err == nil {
		t.profile = p.Name
		t.username, t.region, t.deviceID = p.Username, p.Region, p.DeviceID
	} else if profileName != "" {
		return t, err
	}

	override(&t.username, os.Getenv("TCL_USERNAME"), usernameFlag)
	override(&t.region, os.Getenv("TCL_REGION"), regionFlag)
	override(&t.deviceID, os.Getenv("TCL_DEVICE_ID"), deviceFlag)

	if t.username == "" {
		return t, fmt.Errorf("no username: pass --username, set TCL_USERNAME or run 'tclctl login'")
	}
	if t.region == "" {
		return t, fmt.Errorf("no region: pass --region, set TCL_REGION or run 'tclctl login'")
	}
	return t, nil
}

func override(dst *string, values ...string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
}

// readPassword returns the password from --password, TCL_PASSWORD, a masked
// prompt, or a line on stdin, in that order. stdin is skipped when it
// carries something else.
func readPassword(username string, allowStdin bool) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	if p := os.Getenv("TCL_PASSWORD"); p != "" {
		return p, nil
	}
	if ui.Interactive() {
		return ui.Password(fmt.Sprintf("🔐 Password for %s", username))
	}
	if !allowStdin {
		return "", fmt.Errorf("no password: pass --password or set TCL_PASSWORD")
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return "", fmt.Errorf("empty password on stdin")
	}
	return line, nil
}

// connect runs the login chain for t behind a spinner.
func connect(ctx context.Context, t target, allowStdin bool) (*internal.Session, error) {
	password, err := readPassword(t.username, allowStdin)
	if err != nil {
		return nil, err
	}

	return ui.Spin(ctx, "Logging in to TCL cloud...", func(ctx context.Context) (*internal.Session, error) {
		return internal.NewSession(ctx, internal.Identity{
			Username: t.username,
			Password: password,
			Region:   t.region,
		}, internal.WithLogger(logger))
	})
}

// connectShadow logs in and returns a shadow client with the target device id.
func connectShadow(ctx context.Context, allowStdin bool) (*internal.ShadowClient, string, error) {
	t, err := resolveTarget()
	if err != nil {
		return nil, "", err
	}
	if t.deviceID == "" {
		return nil, "", fmt.Errorf("no device: pass --device, set TCL_DEVICE_ID or store one with 'tclctl login --device'")
	}

	session, err := connect(ctx, t, allowStdin)
	if err != nil {
		return nil, "", err
	}
	return internal.NewShadowClient(session), t.deviceID, nil
}

// connectAC logs in and returns a controller for the target device.
func connectAC(ctx context.Context, allowStdin bool) (*ac.AC, error) {
	shadow, deviceID, err := connectShadow(ctx, allowStdin)
	if err != nil {
		return nil, err
	}
	return ac.New(shadow, deviceID), nil
}

// applySetting logs in, runs one write and reports the outcome.
func applySetting(ctx context.Context, label string, write func(context.Context, *ac.AC) (internal.UpdateResult, error)) error {
	a, err := connectAC(ctx, true)
	if err != nil {
		return err
	}

	result, err := ui.Spin(ctx, fmt.Sprintf("Setting %s...", label), func(ctx context.Context) (internal.UpdateResult, error) {
		return write(ctx, a)
	})
	if err != nil {
		return err
	}

	if result.StatusCode >= 400 {
		fmt.Printf("⚠️  Sent %s to %s, but the cloud answered HTTP %d\n", label, a.DeviceID(), result.StatusCode)
		return nil
	}
	fmt.Printf("✅ Sent %s to %s\n", label, a.DeviceID())
	return nil
}
