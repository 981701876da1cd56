package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tarnlab/tarn/cmd/tarn/config/profiles"
	"github.com/tarnlab/tarn/cmd/tarn/env"
	trest "github.com/tarnlab/tarn/cmd/tarn/rest"
	"github.com/youta-t/flarc"
)

type TarnTaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TarnTaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(
			ctx,
			logger,
			commonFlag,
			cl,
			newpos,
		)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	tarnEnv env.TarnEnv,
	client trest.TarnClient,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: tarnprofile store (%s) is not found. Please try `tarn init` first. Ask your admin to get tarnprofile",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load tarnprofile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		e, err := env.LoadTarnEnv(commonFlag.Env)
		if err != nil {
			return fmt.Errorf("%w: failed to load tarnenv", err)
		}

		client, err := trest.NewClient(
			prof,
			trest.WithLogger(logger),
			trest.WithPageSize(e.PageSize),
		)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create tarn client. Your tarnprofile (%s in %s) can be broken.\n\nRemove it and try `tarn init` again. Ask your admin to get tarnprofile",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, *e, client, cl, params)
	})
}
