package common

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tarnlab/tarn/pkg/utils"
)

type CommonFlags struct {
	Profile      string `flag:"profile" help:"tarnprofile name to use"`
	ProfileStore string `flag:"profile-store" help:"path to tarnprofile store file"`
	Env          string `flag:"env" help:"path to tarnenv file"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// Flags detects the default common flag values for a directory.
//
// It walks up from the directory looking for a ".tarnprofile" file (the
// profile name to use) and a "tarnenv" file. The profile store defaults
// to ~/.tarn/profile; pass WithHome to override where "~" is.
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{
		home: "",
	}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		_home, err := os.UserHomeDir()
		if err != nil {
			_home = ""
		}
		home = _home
	}

	if _from, err := filepath.Abs(from); err == nil {
		from = _from
	}

	// the profile name defaults to the directory itself when no mark
	// file is found.
	profile := from
	if marker, err := utils.SearchFileUpward(from, ".tarnprofile"); err == nil {
		content, err := os.ReadFile(marker)
		if err != nil {
			return CommonFlags{}, err
		}
		if p := strings.Split(string(content), "\n"); 0 < len(p) {
			profile = strings.TrimSpace(p[0])
		}
	}

	env := path.Join(from, "tarnenv")
	if found, err := utils.SearchFileUpward(from, "tarnenv"); err == nil {
		env = found
	}

	return CommonFlags{
		Profile:      profile,
		ProfileStore: path.Join(home, ".tarn", "profile"),
		Env:          env,
	}, nil
}

type CommonFlagOption func(*CommonFlags) *CommonFlags

func WithProfile(profile string, store string) CommonFlagOption {
	return func(opt *CommonFlags) *CommonFlags {
		opt.Profile = profile
		opt.ProfileStore = store
		return opt
	}
}

func WithEnv(env string) CommonFlagOption {
	return func(opt *CommonFlags) *CommonFlags {
		opt.Env = env
		return opt
	}
}
