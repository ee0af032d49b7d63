package persist

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockConfig struct {
	name    string
	applied *[]string
	err     error
	closed  int
}

func (m *mockConfig) Name() string { return m.name }
func (m *mockConfig) Apply() error {
	if m.err != nil {
		return m.err
	}
	*m.applied = append(*m.applied, m.name)
	return nil
}
func (m *mockConfig) Close() error { m.closed++; return nil }

var _ Registry = &mockConfig{}

func newTestHelper() *ConfigHelper {
	return &ConfigHelper{}
}

func TestApplyInRegistrationOrder(t *testing.T) {
	var applied []string
	h := newTestHelper()

	h.Register(&mockConfig{name: "B", applied: &applied})
	h.Register(&mockConfig{name: "A", applied: &applied})
	h.Register(&mockConfig{name: "C", applied: &applied})

	require.NoError(t, h.Apply())
	require.Equal(t, []string{"B", "A", "C"}, applied)
}

func TestRegisterReplacesSameName(t *testing.T) {
	var first, second []string
	h := newTestHelper()

	h.Register(&mockConfig{name: "KeyboardColor", applied: &first})
	h.Register(&mockConfig{name: "KeyboardColor", applied: &second})

	require.NoError(t, h.Apply())
	require.Empty(t, first)
	require.Equal(t, []string{"KeyboardColor"}, second)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	var applied []string
	h := newTestHelper()

	expected := errors.New("rejected")
	h.Register(&mockConfig{name: "A", applied: &applied, err: expected})
	h.Register(&mockConfig{name: "B", applied: &applied})

	err := h.Apply()
	require.True(t, errors.Is(err, expected))
	require.Empty(t, applied)
}

func TestCloseOnce(t *testing.T) {
	var applied []string
	h := newTestHelper()

	m := &mockConfig{name: "A", applied: &applied}
	h.Register(m)

	h.Close()
	h.Close()
	require.Equal(t, 1, m.closed)
}

func TestDryHelperDoesNotApply(t *testing.T) {
	var applied []string
	h, err := NewDryConfigHelper()
	require.NoError(t, err)

	m := &mockConfig{name: "A", applied: &applied}
	h.Register(m)

	require.NoError(t, h.Apply())
	require.Empty(t, applied)

	h.Close()
	require.Equal(t, 1, m.closed)
}
