package index

// Source nguồn gốc của một record
type Source string

const (
	SourceBase   Source = "base"   // dataset gốc, chỉ đọc
	SourceCustom Source = "custom" // record do người dùng thêm
)

// RawRecord record thô từ dataset hoặc store, tên trường tùy schema nguồn
type RawRecord map[string]interface{}

// Record payload thống nhất sau khi resolve alias và parse địa chỉ.
// Record trong index là bất biến; chỉ tập custom được thay thế nguyên khối.
type Record struct {
	Source   Source `json:"source"`
	ID       string `json:"id,omitempty"`
	RowID    string `json:"row_id,omitempty"`
	BoxNo    string `json:"box_no"`
	Note     string `json:"note,omitempty"`
	Borrower string `json:"borrower,omitempty"`
	Display  string `json:"display"`
	AddrNorm string `json:"addr_norm"`
	AddrRaw  string `json:"addr_raw"`
	Road     string `json:"road"`
	RoadKey  string `json:"road_key"`
	NoMain   string `json:"no_main"`
	NoSub    string `json:"no_sub"`
	Floor    string `json:"floor"`
	Lane     string `json:"lane"`
	Alley    string `json:"alley"`

	Raw RawRecord `json:"-"`
}

// CompositeKey khóa dedupe (source, addrNorm, boxNo)
func (r *Record) CompositeKey() string {
	return string(r.Source) + "|" + r.AddrNorm + "|" + r.BoxNo
}

// Indexable record có đủ road + số nhà để vào bucket
func (r *Record) Indexable() bool {
	return r.Road != "" && r.NoMain != ""
}
