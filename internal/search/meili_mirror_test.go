package search

import (
	"context"
	"testing"

	"github.com/mailbox-locator/internal/index"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDocumentFromRecord(t *testing.T) {
	r := index.NewRecord(index.RawRecord{"地址_norm": "中山路123號2樓", "boxNo": "37", "borrower": "王小明"}, index.SourceCustom)

	doc := DocumentFromRecord(r)

	assert.Equal(t, "custom", doc["source"])
	assert.Equal(t, "37", doc["box_no"])
	assert.Equal(t, "中山路", doc["road"])
	assert.Equal(t, "中山", doc["road_key"])
	assert.Equal(t, "王小明", doc["borrower"])
	assert.Regexp(t, `^[0-9a-f]{32}$`, doc["id"])
}

func TestDocumentID_StablePerCompositeKey(t *testing.T) {
	a := &index.Record{Source: index.SourceBase, AddrNorm: "中山路1號", BoxNo: "1"}
	b := &index.Record{Source: index.SourceBase, AddrNorm: "中山路1號", BoxNo: "1", Note: "x"}
	c := &index.Record{Source: index.SourceCustom, AddrNorm: "中山路1號", BoxNo: "1"}

	assert.Equal(t, DocumentID(a), DocumentID(b))
	assert.NotEqual(t, DocumentID(a), DocumentID(c))
}

func TestMeiliMirror_SyncCancelled(t *testing.T) {
	mirror := NewMeiliMirror(MirrorConfig{Host: "http://127.0.0.1:1"}, zap.NewNop())
	assert.Equal(t, "mailbox_records", mirror.config.IndexName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mirror.Sync(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilterSource(t *testing.T) {
	assert.Equal(t, `source = "custom"`, FilterSource("custom"))
}

func TestMeiliMirror_UnreachableHost(t *testing.T) {
	mirror := NewMeiliMirror(MirrorConfig{Host: "http://127.0.0.1:1"}, zap.NewNop())

	err := mirror.Sync(context.Background(), []*index.Record{{Source: index.SourceBase, AddrNorm: "中山路1號", BoxNo: "1"}})
	assert.Error(t, err)
	assert.False(t, mirror.configured)

	_, err = mirror.Typeahead("中山", "custom", 5)
	assert.Error(t, err)
}
