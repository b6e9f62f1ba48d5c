package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/mailbox-locator/internal/index"
	"github.com/mailbox-locator/internal/normalizer"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collatorPool collate.Collator giữ buffer nội bộ nên mỗi goroutine cần bản riêng
var collatorPool = sync.Pool{
	New: func() interface{} {
		return collate.New(language.MustParse("zh-Hant"))
	},
}

// Rank sắp xếp ổn định rồi dedupe theo composite key, giữ bản đầu tiên.
// Thứ tự: custom trước base, box số tăng dần, rồi collation zh-Hant của Display.
// Rank(Rank(x)) == Rank(x).
func Rank(list []*index.Record) []*index.Record {
	if len(list) == 0 {
		return []*index.Record{}
	}

	sorted := make([]*index.Record, 0, len(list))
	for _, rec := range list {
		if rec != nil {
			sorted = append(sorted, rec)
		}
	}

	col := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(col)

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareRecords(col, sorted[i], sorted[j]) < 0
	})

	return dedupe(sorted, 0)
}

// compareRecords thứ tự toàn phần giữa hai record
func compareRecords(col *collate.Collator, a, b *index.Record) int {
	if a.Source != b.Source {
		if a.Source == index.SourceCustom {
			return -1
		}
		return 1
	}

	if c := compareBoxNo(a.BoxNo, b.BoxNo); c != 0 {
		return c
	}

	if c := col.CompareString(a.Display, b.Display); c != 0 {
		return c
	}
	if c := strings.Compare(a.Display, b.Display); c != 0 {
		return c
	}
	if c := strings.Compare(a.AddrNorm, b.AddrNorm); c != 0 {
		return c
	}
	return strings.Compare(a.BoxNo, b.BoxNo)
}

// compareBoxNo so box theo giá trị số của các chữ số trong box;
// box không có chữ số được tính là 0
func compareBoxNo(a, b string) int {
	da := strings.TrimLeft(normalizer.DigitsOnly(a), "0")
	db := strings.TrimLeft(normalizer.DigitsOnly(b), "0")

	if len(da) != len(db) {
		if len(da) < len(db) {
			return -1
		}
		return 1
	}
	return strings.Compare(da, db)
}

// dedupe bỏ record trùng composite key; limit <= 0 là không giới hạn
func dedupe(list []*index.Record, limit int) []*index.Record {
	seen := make(map[string]struct{}, len(list))
	out := make([]*index.Record, 0, len(list))

	for _, rec := range list {
		k := rec.CompositeKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
