package ipc

import (
	"context"

	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/player"
)

// Launch starts a player process, connects to its IPC socket and returns the Session.
// Terminating the session stops the process; the process exiting ends the session.
func Launch(ctx context.Context, popts player.Options, opts ...Option) (*Session, error) {
	proc := player.New(popts)
	if err := proc.Start(ctx); err != nil {
		return nil, err
	}

	s, err := Connect(ctx, proc.Socket(), opts...)
	if err != nil {
		if stopErr := proc.Stop(); stopErr != nil {
			log.Warnf("stop player: %v", stopErr)
		}
		return nil, err
	}
	s.proc = proc

	go func() {
		select {
		case <-proc.Exited():
			log.Infof("player exited, closing session")
			s.Terminate()
		case <-s.done:
		}
	}()

	return s, nil
}
