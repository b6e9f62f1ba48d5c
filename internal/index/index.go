package index

import (
	"slices"
	"strings"

	"github.com/mailbox-locator/internal/normalizer"
	"github.com/mailbox-locator/internal/parser"
)

// Index bảng tra nhiều key (chính xác + bỏ tầng) cùng pool phẳng cho fuzzy.
// Index được dựng lại nguyên khối, không sửa tại chỗ.
type Index struct {
	buckets     map[string][]*Record
	pool        []*Record
	baseCount   int
	customCount int
	indexed     int
}

// Stats thống kê index
type Stats struct {
	BaseRecords   int `json:"base_records"`
	CustomRecords int `json:"custom_records"`
	Indexed       int `json:"indexed"`
	Keys          int `json:"keys"`
}

// Key khóa tổng hợp road|no|sub|floor
func Key(road, noMain, noSub, floor string) string {
	return road + "|" + noMain + "|" + noSub + "|" + floor
}

// FloorlessKey khóa bỏ tầng road|no|sub|
func FloorlessKey(road, noMain, noSub string) string {
	return Key(road, noMain, noSub, "")
}

// NewRecord resolve alias và dựng Record từ record thô
func NewRecord(raw RawRecord, source Source) *Record {
	addrNorm := normalizer.Normalize(raw.First(AddrNormAliases))
	addrRaw := normalizer.Normalize(raw.First(AddrRawAliases))
	display := normalizer.Normalize(raw.First(DisplayAliases))

	resolved := firstNonEmpty(addrNorm, addrRaw, display)

	rec := &Record{
		Source:   source,
		ID:       raw.First(IDAliases),
		RowID:    raw.First(RowIDAliases),
		BoxNo:    raw.First(BoxNoAliases),
		Note:     raw.First(NoteAliases),
		Borrower: raw.First(BorrowerAliases),
		Display:  resolved,
		AddrNorm: resolved,
		AddrRaw:  addrRaw,
		Road:     normalizer.Normalize(raw.First(RoadAliases)),
		NoMain:   normalizer.Normalize(raw.First(NoAliases)),
		NoSub:    normalizer.Normalize(raw.First(NoSubAliases)),
		Floor:    normalizer.Normalize(raw.First(FloorAliases)),
		Lane:     normalizer.Normalize(raw.First(LaneAliases)),
		Alley:    normalizer.Normalize(raw.First(AlleyAliases)),
		Raw:      raw,
	}

	// Trường cấu trúc nào trống thì lấy từ kết quả parse
	if resolved != "" && rec.hasEmptyField() {
		p := parser.ParseAddress(resolved)
		rec.Road = firstNonEmpty(rec.Road, p.Road)
		rec.NoMain = firstNonEmpty(rec.NoMain, p.NoMain)
		rec.NoSub = firstNonEmpty(rec.NoSub, p.NoSub)
		rec.Floor = firstNonEmpty(rec.Floor, p.Floor)
		rec.Lane = firstNonEmpty(rec.Lane, p.Lane)
		rec.Alley = firstNonEmpty(rec.Alley, p.Alley)
	}

	rec.Floor = strings.Replace(rec.Floor, "樓", "", 1)
	rec.RoadKey = normalizer.StripRoadSuffix(rec.Road)

	return rec
}

// Build dựng index từ base rồi custom, theo đúng thứ tự đầu vào
func Build(base, custom []RawRecord) *Index {
	ix := &Index{
		buckets: make(map[string][]*Record),
		pool:    make([]*Record, 0, len(base)+len(custom)),
	}

	for _, raw := range base {
		ix.add(NewRecord(raw, SourceBase))
		ix.baseCount++
	}
	for _, raw := range custom {
		ix.add(NewRecord(raw, SourceCustom))
		ix.customCount++
	}

	return ix
}

func (ix *Index) add(rec *Record) {
	ix.pool = append(ix.pool, rec)

	if !rec.Indexable() {
		return
	}
	ix.indexed++

	k1 := Key(rec.Road, rec.NoMain, rec.NoSub, rec.Floor)
	k2 := FloorlessKey(rec.Road, rec.NoMain, rec.NoSub)

	ix.buckets[k1] = append(ix.buckets[k1], rec)
	if k2 != k1 {
		ix.buckets[k2] = append(ix.buckets[k2], rec)
	}
}

// Lookup lấy bucket theo key, trả về bản sao
func (ix *Index) Lookup(key string) []*Record {
	return slices.Clone(ix.buckets[key])
}

// Pool toàn bộ record cho tìm kiếm fuzzy
func (ix *Index) Pool() []*Record {
	return ix.pool
}

// Stats lấy thống kê index
func (ix *Index) Stats() Stats {
	return Stats{
		BaseRecords:   ix.baseCount,
		CustomRecords: ix.customCount,
		Indexed:       ix.indexed,
		Keys:          len(ix.buckets),
	}
}

// Roads danh sách tên đường phân biệt, theo thứ tự xuất hiện
func (ix *Index) Roads() []string {
	seen := make(map[string]struct{})
	roads := make([]string, 0)
	for _, rec := range ix.pool {
		if rec.Road == "" {
			continue
		}
		if _, ok := seen[rec.Road]; ok {
			continue
		}
		seen[rec.Road] = struct{}{}
		roads = append(roads, rec.Road)
	}
	return roads
}

func (r *Record) hasEmptyField() bool {
	return r.Road == "" || r.NoMain == "" || r.NoSub == "" || r.Floor == "" || r.Lane == "" || r.Alley == ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
