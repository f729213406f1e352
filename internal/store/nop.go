package store

import "github.com/amishk599/nepcollege/internal/model"

// NopStore remembers nothing. Used when persistence is turned off.
type NopStore struct{}

var _ model.PreferenceStore = (*NopStore)(nil)

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Get(key string) (string, error) { return "", nil }
func (s *NopStore) Set(key, value string) error    { return nil }
func (s *NopStore) Close() error                   { return nil }
