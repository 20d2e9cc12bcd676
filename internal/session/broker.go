package session

import (
	"sync"

	"github.com/vendor-discovery/internal/domain"
)

const subscriberBuffer = 16

// Broker - общий для процесса канал "identity changed".
// Медленный подписчик теряет самое старое непрочитанное уведомление.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]chan domain.IdentityChanged
	nextID uint64
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]chan domain.IdentityChanged)}
}

// Subscribe returns a receive channel and a cancel func. The channel is
// closed by cancel.
func (b *Broker) Subscribe() (<-chan domain.IdentityChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan domain.IdentityChanged, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(evt domain.IdentityChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		for {
			select {
			case ch <- evt:
			default:
				// буфер полон: выбрасываем самое старое
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
