package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	prof "github.com/tarnlab/tarn/cmd/tarn/config/profiles"
	"github.com/tarnlab/tarn/cmd/tarn/subcommands/common"
	"github.com/youta-t/flarc"
)

const ARG_TARN_PROFILE_FILE = "TARN_PROFILE_FILE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Initialize this directory as a Tarn-powered project.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_TARN_PROFILE_FILE, Required: true,
				Help: "filepath to tarnprofile file, which you received from your admin.",
			},
		},
		common.NewTaskWithCommonFlag(Task),
		flarc.WithDescription(`
Register a new tarnprofile into your profile store.

"tarnprofile" is a file which contains information about a Tarn platform.
"tarn init" registers the given tarnprofile into your profile store, and
writes its name into ./.tarnprofile so commands run here pick it up.

The name of the profile is given by "--profile" ( default: current filepath ).
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	cf common.CommonFlags,
	cl flarc.Commandline[struct{}],
	_ []any,
) error {
	args := cl.Args()
	profFile := args[ARG_TARN_PROFILE_FILE][0]

	profStore, err := prof.LoadProfileStore(cf.ProfileStore)
	if errors.Is(err, prof.ErrProfileStoreNotFound) {
		// ok.
		profStore = prof.ProfileStore{}
	} else if err != nil {
		return fmt.Errorf(
			"%w: failed to load profile store (%s)", err, cf.ProfileStore,
		)
	}

	profName := cf.Profile
	newProf := new(prof.TarnProfile)
	{
		content, err := os.ReadFile(profFile)
		if err != nil {
			return fmt.Errorf("%w: failed to read profile file (%s)", err, profFile)
		}

		if err := yaml.Unmarshal(content, newProf); err != nil {
			return fmt.Errorf("%w: failed to parse profile file (%s)", err, profFile)
		}
	}
	if err := newProf.Verify(); err != nil {
		return fmt.Errorf("%w: %s", err, profFile)
	}

	profStore[profName] = newProf
	if err := profStore.Save(cf.ProfileStore); err != nil {
		return fmt.Errorf(
			"%w: failed to save profile store (%s)", err, cf.ProfileStore,
		)
	}
	logger.Printf("profile %s is saved to %s", profName, cf.ProfileStore)

	{
		f, err := os.OpenFile(".tarnprofile", os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(0600))
		if err != nil {
			return fmt.Errorf("%w: failed to open .tarnprofile", err)
		}
		defer f.Close()
		f.Write([]byte(profName))
	}

	return nil
}
