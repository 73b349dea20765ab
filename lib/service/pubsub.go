package service

import (
	"sync"

	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/getAlby/relayadmin.go/lib/security"
)

// Pubsub fans admin actions out to the webhook and rabbitmq publishers
type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]chan models.AdminAction
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]chan models.AdminAction)
	return ps
}

func (ps *Pubsub) Subscribe(ch chan models.AdminAction) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	idBytes, err := security.RandBytesFromStr(16, alphaNumBytes)
	if err != nil {
		return "", err
	}
	subId = string(idBytes)
	ps.subs[subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[id] == nil {
		return
	}
	close(ps.subs[id])
	delete(ps.subs, id)
}

// Publish never blocks the request that caused the action: a subscriber
// whose buffer is full misses the message.
func (ps *Pubsub) Publish(msg models.AdminAction) (delivered int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

func (ps *Pubsub) Count() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs)
}
