package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/clientdesk/internal/clients"
)

// Gateway loads and saves the client dataset as one blob.
type Gateway struct {
	kv     KV
	logger *log.Logger
}

// NewGateway returns a gateway over kv. A nil logger discards output.
func NewGateway(kv KV, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gateway{kv: kv, logger: logger}
}

// KV returns the underlying store.
func (g *Gateway) KV() KV { return g.kv }

// Load returns the stored dataset. A missing key or a blob that does not
// decode yields an empty dataset, the latter with a warning. A failed read
// is returned so the caller never saves over data it could not see.
func (g *Gateway) Load(ctx context.Context) ([]clients.Client, error) {
	data, ok, err := g.Raw(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyClients, err)
	}
	if !ok {
		return []clients.Client{}, nil
	}
	list, err := Decode(data)
	if err != nil {
		g.logger.Warn("stored clients are unreadable, starting empty", "key", KeyClients, "err", err)
		return []clients.Client{}, nil
	}
	return list, nil
}

// Save replaces the stored dataset with list.
func (g *Gateway) Save(ctx context.Context, list []clients.Client) error {
	data, err := Encode(list)
	if err != nil {
		return err
	}
	if err := g.kv.Set(ctx, KeyClients, data); err != nil {
		return fmt.Errorf("write %s: %w", KeyClients, err)
	}
	return nil
}

// Raw returns the stored blob as-is.
func (g *Gateway) Raw(ctx context.Context) ([]byte, bool, error) {
	return g.kv.Get(ctx, KeyClients)
}

// Encode serializes a dataset in the persisted layout.
func Encode(list []clients.Client) ([]byte, error) {
	if list == nil {
		list = []clients.Client{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal clients: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob. An empty blob or JSON null is an empty
// dataset.
func Decode(data []byte) ([]clients.Client, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []clients.Client{}, nil
	}
	var list []clients.Client
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse clients: %w", err)
	}
	for i := range list {
		if list[i].Tasks == nil {
			list[i].Tasks = []clients.Task{}
		}
	}
	return list, nil
}
