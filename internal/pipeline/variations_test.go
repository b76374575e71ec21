package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

func TestVariations_StreamsObjectsAsTheyComplete(t *testing.T) {
	client := &llm.MockClient{Chunks: []string{
		"Sure, here are some ideas:\n",
		`{"name":"Glass","html":"<div>g`,
		`lass</div>"}` + "\n" + `{"name":"Neon",`,
		`"html":"<div>neon</div>"}`,
		"\ndone!",
	}}
	p, _, _ := newTestPipeline(client)

	var got []schema.ComponentVariation
	err := p.Variations(context.Background(), "<div>original</div>", func(v schema.ComponentVariation) {
		got = append(got, v)
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, schema.ComponentVariation{Name: "Glass", HTML: "<div>glass</div>"}, got[0])
	assert.Equal(t, schema.ComponentVariation{Name: "Neon", HTML: "<div>neon</div>"}, got[1])
}

func TestVariations_SkipsMalformedAndIncompleteObjects(t *testing.T) {
	client := &llm.MockClient{Chunks: []string{
		`{"name":"NoHTML"}`,                    // missing html: skipped
		`{"name":"","html":"<p>x</p>"}`,        // empty name: skipped
		`{broken}`,                             // never parses: skipped
		`{"name":"Good","html":"<p>ok</p>"}`,   // kept
		`{"name":"Trailing","html":"<p>cut off`, // stream ends mid-object: dropped
	}}
	p, _, _ := newTestPipeline(client)

	var got []schema.ComponentVariation
	err := p.Variations(context.Background(), "<div></div>", func(v schema.ComponentVariation) {
		got = append(got, v)
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Good", got[0].Name)
}

func TestVariations_MissingAPIKey(t *testing.T) {
	p, _, _ := newTestPipeline(nil)

	err := p.Variations(context.Background(), "<div></div>", func(schema.ComponentVariation) {
		t.Fatal("no variation should be delivered")
	})
	require.Error(t, err)
	assert.True(t, llm.IsConfigError(err))
}

func TestVariations_PromptContainsSourceHTML(t *testing.T) {
	client := &llm.MockClient{}
	p, _, _ := newTestPipeline(client)

	require.NoError(t, p.Variations(context.Background(), "<section>src</section>", func(schema.ComponentVariation) {}))

	prompts := client.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "<section>src</section>")
}
