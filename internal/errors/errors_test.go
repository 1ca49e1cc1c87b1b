package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	base := NewStd("something broke")
	err := New(base).
		Component("datastore").
		Category(CategoryDatabase).
		Context("operation", "save_sample").
		Build()

	assert.Equal(t, "something broke", err.Error())
	assert.Equal(t, "datastore", err.GetComponent())
	assert.Equal(t, string(CategoryDatabase), err.GetCategory())
	assert.Equal(t, "save_sample", err.GetContext()["operation"])
	assert.False(t, err.GetTimestamp().IsZero())

	assert.True(t, Is(err, base), "enhanced errors unwrap to the original")
}

func TestNewf(t *testing.T) {
	err := Newf("invalid code %q", "X").Category(CategoryValidation).Build()

	assert.Equal(t, `invalid code "X"`, err.Error())
	assert.Equal(t, CategoryValidation, err.Category)
}

func TestIsCategory(t *testing.T) {
	err := Newf("no rows").Category(CategoryNotFound).Build()

	assert.True(t, IsCategory(err, CategoryNotFound))
	assert.False(t, IsCategory(err, CategoryDatabase))
	assert.False(t, IsCategory(NewStd("plain"), CategoryNotFound))

	wrapped := fmt.Errorf("lookup failed: %w", err)
	assert.True(t, IsCategory(wrapped, CategoryNotFound), "category survives wrapping")
	assert.True(t, IsNotFound(wrapped))
}

type limitError struct{}

func (limitError) Error() string                { return "limit reached" }
func (limitError) ErrorCategory() ErrorCategory { return CategoryLimit }

func TestIsCategory_CategorizedError(t *testing.T) {
	var err error = limitError{}

	assert.True(t, IsCategory(err, CategoryLimit), "CategorizedError implementations carry their own category")
	assert.True(t, IsCategory(fmt.Errorf("wrapped: %w", err), CategoryLimit))
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{name: "connection failure", err: NewStd("connection refused"), want: CategoryNetwork},
		{name: "timeout", err: NewStd("request timeout"), want: CategoryNetwork},
		{name: "validation wording", err: NewStd("invalid parameter"), want: CategoryValidation},
		{name: "missing row", err: NewStd("record not found"), want: CategoryNotFound},
		{name: "anything else", err: NewStd("kaboom"), want: CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			built := New(tt.err).Build()
			assert.Equal(t, tt.want, built.Category)
		})
	}
}

func TestCategorizedErrorPropagation(t *testing.T) {
	// Building without an explicit category adopts the wrapped error's.
	inner := limitError{}
	built := New(inner).Build()

	assert.Equal(t, CategoryLimit, built.Category)
}

func TestComponentDetection(t *testing.T) {
	// Built outside any registered package, the component falls back to
	// stack-based detection.
	err := Newf("orphan error").Build()
	assert.NotEmpty(t, err.GetComponent())
}

func TestNetworkContext(t *testing.T) {
	err := New(NewStd("dial failed")).
		Category(CategoryNetwork).
		NetworkContext("https://api.perplexity.ai/chat/completions", 0).
		Build()

	ctx := err.GetContext()
	require.NotNil(t, ctx)
	assert.Equal(t, "https-endpoint", ctx["url_category"], "URLs are anonymized to their protocol")
	assert.NotContains(t, fmt.Sprint(ctx), "perplexity.ai", "the raw URL must not be retained")
}

func TestEnhancedErrorIs_CategoryMatch(t *testing.T) {
	a := Newf("a").Category(CategoryDatabase).Build()
	b := Newf("b").Category(CategoryDatabase).Build()
	c := Newf("c").Category(CategoryNetwork).Build()

	assert.True(t, Is(a, b), "enhanced errors compare by category")
	assert.False(t, Is(a, c))
}
