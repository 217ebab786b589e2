package storage

import (
	"log"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
)

// TeeKV writes to a primary store and best-effort mirrors every write to a
// secondary one. Reads come from the primary, falling back to the mirror only
// when the primary has no data (fresh device, existing remote history).
type TeeKV struct {
	Primary transcript.KV
	Mirror  transcript.KV
}

func (t *TeeKV) Get(key string) ([]byte, error) {
	data, err := t.Primary.Get(key)
	if err == nil {
		return data, nil
	}
	if t.Mirror == nil {
		return nil, err
	}
	return t.Mirror.Get(key)
}

func (t *TeeKV) Put(key string, data []byte) error {
	err := t.Primary.Put(key, data)
	if t.Mirror != nil {
		if merr := t.Mirror.Put(key, data); merr != nil {
			log.Printf("storage: mirror write failed for %s: %v", key, merr)
		}
	}
	return err
}
