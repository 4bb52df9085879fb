package archive

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/testutil"
	"github.com/roach88/jpack/internal/value"
)

func sampleValue(t *testing.T) value.Value {
	t.Helper()
	v, err := value.Parse([]byte(`{"users": [{"id": 1, "name": "a"}, {"id": 2, "name": "b"}], "ok": true}`))
	require.NoError(t, err)
	return v
}

func TestPutAndGet(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	doc, err := a.Put(ctx, "users", sampleValue(t), codec.Options{SortKeys: true})
	require.NoError(t, err)

	parsed, err := uuid.Parse(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, int64(1), doc.Seq)
	assert.Equal(t, "users", doc.Name)
	assert.Len(t, doc.ContentHash, 64)
	assert.Equal(t, len(doc.Compressed.Values), doc.ValueCount)
	assert.Positive(t, doc.PackedSize)

	got, err := a.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.True(t, got.Options.SortKeys)
}

func TestGetValueRoundTrips(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()
	in := sampleValue(t)

	doc, err := a.Put(ctx, "users", in, codec.DefaultOptions())
	require.NoError(t, err)

	out, err := a.GetValue(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, out))
}

func TestPutIsIdempotentPerName(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	first, err := a.Put(ctx, "doc", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)
	second, err := a.Put(ctx, "doc", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Seq, second.Seq)
	assert.Equal(t, first.EncodingHash, second.EncodingHash)
	assert.Equal(t, first.Compressed, second.Compressed)

	docs, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestPutKeepsKeyOrder(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	first, err := a.Put(ctx, "doc", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)

	reordered, err := value.Parse([]byte(`{"ok": true, "users": [{"name": "a", "id": 1}, {"name": "b", "id": 2}]}`))
	require.NoError(t, err)
	second, err := a.Put(ctx, "doc", reordered, codec.DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.EncodingHash, second.EncodingHash)
	assert.Equal(t, first.ContentHash, second.ContentHash)

	tests := []struct {
		id   string
		want string
	}{
		{first.ID, `{"users":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"ok":true}`},
		{second.ID, `{"ok":true,"users":[{"name":"a","id":1},{"name":"b","id":2}]}`},
	}
	for _, tt := range tests {
		v, err := a.GetValue(ctx, tt.id)
		require.NoError(t, err)
		out, err := value.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}

	docs, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestPutDistinguishesOptions(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()
	in := value.Array{value.Float(math.NaN())}

	collapsed, err := a.Put(ctx, "nan", in, codec.DefaultOptions())
	require.NoError(t, err)
	preserved, err := a.Put(ctx, "nan", in, codec.Options{PreserveNaN: true})
	require.NoError(t, err)

	assert.NotEqual(t, collapsed.ID, preserved.ID)
	assert.Equal(t, collapsed.ContentHash, preserved.ContentHash)
	assert.True(t, preserved.Options.PreserveNaN)
	assert.Equal(t, []string{"N|0", "a|0"}, preserved.Compressed.Values)

	v, err := a.GetValue(ctx, preserved.ID)
	require.NoError(t, err)
	arr, ok := v.(value.Array)
	require.True(t, ok)
	require.Len(t, arr, 1)
	n, ok := arr[0].(value.Number)
	require.True(t, ok)
	assert.True(t, n.IsNaN())

	again, err := a.Put(ctx, "nan", in, codec.Options{PreserveNaN: true})
	require.NoError(t, err)
	assert.Equal(t, preserved.ID, again.ID)
}

func TestPutSameContentDifferentName(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	d1, err := a.Put(ctx, "one", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)
	d2, err := a.Put(ctx, "two", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, d1.ID, d2.ID)
	assert.Equal(t, d1.ContentHash, d2.ContentHash)
}

func TestPutRejectsUnsupportedValues(t *testing.T) {
	a := createTestArchive(t)

	_, err := a.Put(context.Background(), "nan", value.Float(math.NaN()), codec.Options{ErrorOnNaN: true})
	require.Error(t, err)
	assert.True(t, codec.IsUnsupportedValue(err))
}

func TestPutHashesCollapsedSpecials(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	doc, err := a.Put(ctx, "specials", value.Array{value.Float(math.NaN())}, codec.Options{PreserveNaN: true})
	require.NoError(t, err)

	want, err := value.ContentHash(value.Array{value.Null{}})
	require.NoError(t, err)
	assert.Equal(t, want, doc.ContentHash)
	assert.Equal(t, []string{"N|0", "a|0"}, doc.Compressed.Values)
}

func TestListOrderedBySeq(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	names := []string{"c", "a", "b"}
	for i, name := range names {
		_, err := a.Put(ctx, name, value.Int(int64(i)), codec.DefaultOptions())
		require.NoError(t, err)
	}

	docs, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, names[i], doc.Name)
		assert.Equal(t, int64(i+1), doc.Seq)
		assert.Empty(t, doc.Compressed.Values, "List does not load payloads")
	}
}

func TestListEmpty(t *testing.T) {
	a := createTestArchive(t)

	docs, err := a.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDelete(t *testing.T) {
	a := createTestArchive(t)
	ctx := context.Background()

	doc, err := a.Put(ctx, "gone", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, doc.ID))

	_, err = a.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = a.Delete(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	a := createTestArchive(t)

	_, err := a.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.GetValue(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentsPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	a, err := Open(path)
	require.NoError(t, err)
	doc, err := a.Put(ctx, "kept", sampleValue(t), codec.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Compressed, got.Compressed)
}

func TestWithIDGenerator(t *testing.T) {
	gen := testutil.NewSequentialIDGenerator("doc")
	a, err := Open(filepath.Join(t.TempDir(), "ids.db"), WithIDGenerator(gen))
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	d1, err := a.Put(ctx, "first", value.String("one"), codec.DefaultOptions())
	require.NoError(t, err)
	d2, err := a.Put(ctx, "second", value.String("two"), codec.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "doc-0001", d1.ID)
	assert.Equal(t, "doc-0002", d2.ID)
}
