package archive

import (
	"context"
	"path"
	"time"
)

// Archiver stores a copy of a normalized request payload
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) error
}

// Key builds the object key for a payload: {type}/{yyyy}/{mm}/{dd}/{hook}/{instance}.json
func Key(typeID, hookID, instanceID string) string {
	return KeyAt(time.Now().UTC(), typeID, hookID, instanceID)
}

// KeyAt is Key with an explicit timestamp
func KeyAt(t time.Time, typeID, hookID, instanceID string) string {
	return path.Join(typeID, t.Format("2006/01/02"), hookID, instanceID+".json")
}
