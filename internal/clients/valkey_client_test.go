package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("WRONGTYPE Operation against a key"), false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, isConnectionError(c.err), "%v", c.err)
	}
}

func TestEmptyIDsSkipValkey(t *testing.T) {
	vc := &ValkeyClient{}

	assert.NoError(t, vc.MarkLabeled(context.Background()))

	seen, err := vc.LabeledSubset(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, seen)
}

func TestLabeledKeysArePerID(t *testing.T) {
	keys := labeledKeys([]string{"a", "b"})

	assert.Equal(t, []string{"comments:labeled:a", "comments:labeled:b"}, keys)
	assert.Equal(t, 24*time.Hour, VALKEY_LABELED_TTL)
}

func TestLabeledFromReply(t *testing.T) {
	ids := []string{"a", "b", "c"}

	assert.Equal(t, map[string]bool{"a": true, "c": true}, labeledFromReply(ids, []bool{true, false, true}))
	assert.Empty(t, labeledFromReply(ids, []bool{false, false, false}))
	assert.Equal(t, map[string]bool{"a": true}, labeledFromReply(ids[:1], []bool{true, true}))
}
