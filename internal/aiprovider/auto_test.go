package aiprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestAutoReturnsFirstSuccess(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("boom")}
	second := &fakeProvider{name: "second", reply: "ok"}
	auto := NewAuto(first, second)

	reply, err := auto.Generate(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestAutoReturnsLastErrorWhenAllFail(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("boom1")}
	second := &fakeProvider{name: "second", err: errors.New("boom2")}
	auto := NewAuto(first, second)

	_, err := auto.Generate(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom2")
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &fakeProvider{name: "inner", reply: "ok"}
	wrapped := WithBreaker(inner, nil)
	reply, err := wrapped.Generate(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}
