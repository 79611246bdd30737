package ipc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/log"
)

// bindMessage is the script-message name that key presses are reported under.
const bindMessage = "custom-bind"

type keyTable struct {
	seq atomic.Int64

	mu     sync.Mutex
	byName map[string]func()
}

func newKeyTable() *keyTable {
	return &keyTable{byName: make(map[string]func())}
}

func (t *keyTable) add(name string, cb func()) {
	t.mu.Lock()
	t.byName[name] = cb
	t.mu.Unlock()
}

func (t *keyTable) get(name string) (func(), bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cb, ok := t.byName[name]
	return cb, ok
}

func (t *keyTable) remove(name string) {
	t.mu.Lock()
	delete(t.byName, name)
	t.mu.Unlock()
}

// OnKey calls cb whenever key is pressed in the player and returns the generated binding name.
//
// The player is first asked to keybind the key to a script-message naming the binding.
// When it rejects that command, an input section with the same effect is defined and
// enabled instead. Only a *CommandError triggers the fallback; timeouts and disconnects
// are returned as they are. Bindings live until the session ends.
func (s *Session) OnKey(ctx context.Context, key string, cb func()) (string, error) {
	name := fmt.Sprintf("%s-%s-%d", constant.App, s.tag, s.keys.seq.Add(1))
	target := fmt.Sprintf("script-message %s %s", bindMessage, name)
	s.keys.add(name, cb)

	_, err := s.Command(ctx, "keybind", key, target)
	if err == nil {
		return name, nil
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		s.keys.remove(name)
		return "", fmt.Errorf("bind %s: %w", key, err)
	}

	log.Debugf("keybind %s rejected (%s), falling back to input section %s", key, cmdErr.Message, name)
	if err := s.bindSection(ctx, name, key, target); err != nil {
		s.keys.remove(name)
		return "", fmt.Errorf("bind %s: %w", key, err)
	}
	return name, nil
}

// bindSection is the define-section/enable-section form of a key binding.
func (s *Session) bindSection(ctx context.Context, section, key, target string) error {
	if _, err := s.Command(ctx, "define-section", section, key+" "+target, "force"); err != nil {
		return err
	}
	_, err := s.Command(ctx, "enable-section", section)
	return err
}

// handleClientMessage fires the binding named by a ["custom-bind", <name>] client message.
func (s *Session) handleClientMessage(ev Event) error {
	args, err := ev.Get("args").AsSlice()
	if err != nil || len(args) != 2 {
		return nil
	}
	if kind, _ := args[0].(string); kind != bindMessage {
		return nil
	}

	name, _ := args[1].(string)
	if cb, ok := s.keys.get(name); ok {
		cb()
	}
	return nil
}
