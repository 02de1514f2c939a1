package input

import (
	"fmt"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
)

// Key is one key press on the terminal.
type Key struct {
	Rune rune
	Key  keyboard.Key
	Time time.Duration
}

func (k Key) Is(key keyboard.Key) bool {
	return k.Rune == 0 && k.Key == key
}

// forward stamps raw key events onto keys until raw closes or done does.
// keys is closed on return.
func forward(raw <-chan keyboard.KeyEvent, clock Clock, keys chan<- Key, done <-chan struct{}) {
	defer close(keys)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			if nil != ev.Err {
				continue
			}
			select {
			case keys <- Key{Rune: ev.Rune, Key: ev.Key, Time: clock()}:
			case <-done:
				return
			}
		}
	}
}

// Keyboard puts the terminal in raw mode and delivers its key presses until
// the returned close function is called.
func Keyboard(clock Clock) (<-chan Key, func() error, error) {
	raw, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	keys := make(chan Key, 128)
	done := make(chan struct{})
	go forward(raw, clock, keys, done)

	var once sync.Once
	stop := func() error {
		once.Do(func() { close(done) })
		return keyboard.Close()
	}
	return keys, stop, nil
}
