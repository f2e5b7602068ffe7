package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dummyFunction(name string) *Function {
	return &Function{
		Name: name,
		Bind: func(args Arguments) (Binding, error) { return nil, nil },
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	err := r.Register(dummyFunction("read_pcap"))
	assert.NoError(t, err)

	fn, err := r.Lookup("read_pcap")
	assert.NoError(t, err)
	assert.Equal(t, "read_pcap", fn.Name)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	assert.NoError(t, r.Register(dummyFunction("read_pcap")))
	err := r.Register(dummyFunction("read_pcap"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryRegisterInvalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&Function{Name: ""}))
	assert.Error(t, r.Register(&Function{Name: "no-bind"}))
}

func TestRegistryLookupNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(dummyFunction("b")))
	assert.NoError(t, r.Register(dummyFunction("a")))

	assert.Equal(t, []string{"a", "b"}, r.Names())
}
