package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mailbox-locator/app/models"
	"github.com/mailbox-locator/helpers/utils"
	"github.com/mailbox-locator/internal/dataset"
	"github.com/mailbox-locator/internal/index"
	"github.com/mailbox-locator/internal/normalizer"
	"github.com/mailbox-locator/internal/parser"
	"github.com/mailbox-locator/internal/search"
	"go.uber.org/zap"
)

var (
	ErrMissingFields      = errors.New("address and box number are required")
	ErrUnparseableAddress = errors.New("address must contain a road and a house number")
	ErrDuplicateRecord    = errors.New("a custom record with the same address and box number already exists")
	ErrRecordNotFound     = errors.New("custom record not found")
	ErrImportNotArray     = errors.New("import payload is not an array")
	ErrInvalidImport      = errors.New("import payload cannot be decoded")
)

// DefaultStoreKey key lưu tập custom record trong store
const DefaultStoreKey = "custom_records:v2"

// SearchMode chế độ tra cứu
type SearchMode string

const (
	ModeAddress  SearchMode = "addr"
	ModeBox      SearchMode = "box"
	ModeBorrower SearchMode = "borrower"
	ModeAll      SearchMode = "all"
)

// ParseSearchMode chuỗi rỗng là ModeAddress
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAddress:
		return ModeAddress, true
	case ModeBox:
		return ModeBox, true
	case ModeBorrower:
		return ModeBorrower, true
	case ModeAll:
		return ModeAll, true
	}
	return "", false
}

// RecordInput dữ liệu thêm / sửa một custom record
type RecordInput struct {
	Address  string
	BoxNo    string
	Note     string
	Borrower string
}

// LookupResult kết quả một lần tra cứu
type LookupResult struct {
	Query       string                  `json:"query"`
	Mode        SearchMode              `json:"mode"`
	Tier        search.MatchTier        `json:"tier"`
	Candidates  []*index.Record         `json:"candidates"`
	Parsed      *parser.ParsedAddress   `json:"parsed,omitempty"`
	Suggestions []search.RoadSuggestion `json:"suggestions,omitempty"`
	Generation  uint64                  `json:"generation"`
}

// ImportResult thống kê một lần import
type ImportResult struct {
	Total   int `json:"total"`
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// ServiceStats thống kê service
type ServiceStats struct {
	Index           index.Stats `json:"index"`
	Generation      uint64      `json:"generation"`
	CacheEntries    int         `json:"cache_entries"`
	PersistFailures int64       `json:"persist_failures"`
	Store           StoreStats  `json:"store"`
	Uptime          string      `json:"uptime"`
}

// RecordMirror đích đồng bộ pool record sau mỗi lần rebuild
type RecordMirror interface {
	Sync(ctx context.Context, records []*index.Record) error
}

// LockerOptions tùy chọn khởi tạo LockerService
type LockerOptions struct {
	Search    search.Options
	CacheSize int
	StoreKey  string
	Mirror    RecordMirror
}

type snapshot struct {
	matcher    *search.Matcher
	generation uint64
}

// mirrorJob pool cần đẩy sang mirror cùng generation của nó
type mirrorJob struct {
	pool       []*index.Record
	generation uint64
}

// LockerService sở hữu engine tra cứu và tập custom record.
// Tra cứu đọc snapshot bất biến; thay đổi được tuần tự hóa bằng mutex,
// dựng snapshot mới, swap rồi mới ghi store.
type LockerService struct {
	base   []index.RawRecord
	custom []index.RawRecord
	mu     sync.Mutex

	snap     atomic.Pointer[snapshot]
	store    IRecordStore
	storeKey string
	cache    *lru.Cache[string, *LookupResult]
	mirror   RecordMirror
	mirrorCh chan mirrorJob
	mirrorWG sync.WaitGroup
	opts     search.Options
	logger   *zap.Logger

	startTime       time.Time
	persistFailures atomic.Int64
}

// NewLockerService tạo mới LockerService, nạp custom record từ store
func NewLockerService(ctx context.Context, base []index.RawRecord, store IRecordStore, opts LockerOptions, logger *zap.Logger) (*LockerService, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.StoreKey == "" {
		opts.StoreKey = DefaultStoreKey
	}

	cache, err := lru.New[string, *LookupResult](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}

	s := &LockerService{
		base:      base,
		store:     store,
		storeKey:  opts.StoreKey,
		cache:     cache,
		mirror:    opts.Mirror,
		opts:      opts.Search,
		logger:    logger,
		startTime: time.Now(),
	}

	if s.mirror != nil {
		s.mirrorCh = make(chan mirrorJob, 1)
		s.mirrorWG.Add(1)
		go s.runMirror(s.mirrorCh)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapLocked(s.loadCustom(ctx))

	stats := s.snap.Load().matcher.Index().Stats()
	logger.Info("Locker index đã sẵn sàng",
		zap.Int("base_records", stats.BaseRecords),
		zap.Int("custom_records", stats.CustomRecords),
		zap.Int("index_keys", stats.Keys))

	return s, nil
}

// loadCustom blob hỏng hoặc không tồn tại thì trả về tập rỗng
func (s *LockerService) loadCustom(ctx context.Context) []index.RawRecord {
	data, found, err := s.store.Get(ctx, s.storeKey)
	if err != nil {
		s.logger.Warn("Không đọc được custom records, dùng tập rỗng", zap.Error(err))
		return []index.RawRecord{}
	}
	if !found || len(data) == 0 {
		return []index.RawRecord{}
	}

	records, err := dataset.DecodeJSON(data)
	if err != nil {
		s.logger.Warn("Custom records bị hỏng, dùng tập rỗng", zap.Error(err))
		return []index.RawRecord{}
	}
	return records
}

// Lookup tra cứu theo chế độ, kết quả được cache theo generation
func (s *LockerService) Lookup(query string, mode SearchMode) *LookupResult {
	snap := s.snap.Load()
	cacheKey := fmt.Sprintf("%d|%s|%s", snap.generation, mode, query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached
	}

	m := snap.matcher
	res := &LookupResult{Query: query, Mode: mode, Generation: snap.generation}

	switch mode {
	case ModeBox:
		res.Candidates, res.Tier = m.SearchByBoxNo(query), search.TierBox
	case ModeBorrower:
		res.Candidates, res.Tier = m.SearchByBorrower(query), search.TierBorrower
	case ModeAll:
		res.Candidates, res.Tier = m.SearchAll(query), search.TierAll
	default:
		res.Mode = ModeAddress
		res.Candidates, res.Tier = m.Search(query)
	}

	// Không có kết quả: trả về kết quả parse và gợi ý tên đường
	if len(res.Candidates) == 0 && (res.Mode == ModeAddress || res.Mode == ModeAll) {
		p := parser.ParseAddress(query)
		res.Parsed = &p
		res.Suggestions = m.SuggestRoads(query, 0)
	}

	s.cache.Add(cacheKey, res)
	return res
}

// Matcher matcher của snapshot hiện tại
func (s *LockerService) Matcher() *search.Matcher {
	return s.snap.Load().matcher
}

// Add thêm custom record mới vào đầu danh sách
func (s *LockerService) Add(ctx context.Context, in RecordInput) (index.RawRecord, error) {
	addrNorm, box, p, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.duplicateLocked(addrNorm, box, -1) {
		return nil, ErrDuplicateRecord
	}

	rec := buildCustomRecord(utils.GenerateUUID(), addrNorm, box, in, p)

	custom := make([]index.RawRecord, 0, len(s.custom)+1)
	custom = append(custom, rec)
	custom = append(custom, s.custom...)

	s.commitLocked(ctx, custom, "add")
	return rec, nil
}

// Update sửa custom record theo key, giữ nguyên vị trí và id
func (s *LockerService) Update(ctx context.Context, key string, in RecordInput) (index.RawRecord, error) {
	addrNorm, box, p, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.findLocked(key)
	if pos < 0 {
		return nil, ErrRecordNotFound
	}
	if s.duplicateLocked(addrNorm, box, pos) {
		return nil, ErrDuplicateRecord
	}

	old := s.custom[pos]
	id := old.First(index.IDAliases)
	if id == "" {
		id = utils.GenerateUUID()
	}
	rec := buildCustomRecord(id, addrNorm, box, in, p)
	if rowID, ok := old["row_id"]; ok {
		rec["row_id"] = rowID
	}

	custom := slices.Clone(s.custom)
	custom[pos] = rec

	s.commitLocked(ctx, custom, "update")
	return rec, nil
}

// Delete xóa custom record theo key
func (s *LockerService) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.findLocked(key)
	if pos < 0 {
		return ErrRecordNotFound
	}

	custom := slices.Delete(slices.Clone(s.custom), pos, pos+1)
	s.commitLocked(ctx, custom, "delete")
	return nil
}

// List danh sách custom record (mới nhất trước) kèm key
func (s *LockerService) List() []models.CustomEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CustomEntry, 0, len(s.custom))
	for _, rec := range s.custom {
		out = append(out, models.CustomEntry{Key: RecordKey(rec), Record: rec})
	}
	return out
}

// Import merge mảng JSON vào tập custom
func (s *LockerService) Import(ctx context.Context, payload []byte) (ImportResult, error) {
	records, err := dataset.DecodeJSON(payload)
	if errors.Is(err, dataset.ErrNotArray) {
		return ImportResult{}, ErrImportNotArray
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return s.ImportRecords(ctx, records), nil
}

// ImportXLSX merge file XLSX vào tập custom
func (s *LockerService) ImportXLSX(ctx context.Context, r io.Reader) (ImportResult, error) {
	records, err := dataset.ReadXLSX(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return s.ImportRecords(ctx, records), nil
}

// ImportRecords merge theo key (id, nếu không có thì địa chỉ|box).
// Record trùng key thay thế bản cũ tại chỗ; import lại cùng dữ liệu không đổi kết quả.
func (s *LockerService) ImportRecords(ctx context.Context, incoming []index.RawRecord) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := ImportResult{Total: len(incoming)}

	order := make([]string, 0, len(s.custom)+len(incoming))
	byKey := make(map[string]index.RawRecord, len(s.custom)+len(incoming))
	for _, rec := range s.custom {
		k := RecordKey(rec)
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = rec
	}

	for _, rec := range incoming {
		if mergeAddress(rec) == "" || rec.First(index.BoxNoAliases) == "" {
			result.Skipped++
			continue
		}
		k := RecordKey(rec)
		if _, ok := byKey[k]; ok {
			result.Updated++
		} else {
			result.Added++
			order = append(order, k)
		}
		byKey[k] = rec
	}

	if result.Added == 0 && result.Updated == 0 {
		return result
	}

	custom := make([]index.RawRecord, 0, len(order))
	for _, k := range order {
		custom = append(custom, byKey[k])
	}

	s.commitLocked(ctx, custom, "import")
	return result
}

// Export xuất tập custom dạng JSON
func (s *LockerService) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dataset.EncodeJSON(s.custom)
}

// ExportXLSX xuất tập custom dạng XLSX
func (s *LockerService) ExportXLSX(w io.Writer) error {
	s.mu.Lock()
	custom := s.custom
	s.mu.Unlock()

	return dataset.WriteXLSX(w, custom)
}

// Wipe xóa toàn bộ custom record và key trong store
func (s *LockerService) Wipe(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.swapLocked([]index.RawRecord{})
	s.afterPersistLocked("wipe", s.store.Delete(ctx, s.storeKey))
}

// Stats thống kê service
func (s *LockerService) Stats() ServiceStats {
	snap := s.snap.Load()
	return ServiceStats{
		Index:           snap.matcher.Index().Stats(),
		Generation:      snap.generation,
		CacheEntries:    s.cache.Len(),
		PersistFailures: s.persistFailures.Load(),
		Store:           s.store.Stats(),
		Uptime:          time.Since(s.startTime).Round(time.Second).String(),
	}
}

// GetStartTime thời điểm khởi động service
func (s *LockerService) GetStartTime() time.Time {
	return s.startTime
}

// commitLocked swap snapshot rồi ghi store; lỗi ghi chỉ được log và đếm
func (s *LockerService) commitLocked(ctx context.Context, custom []index.RawRecord, op string) {
	s.swapLocked(custom)

	data, err := dataset.EncodeJSON(custom)
	if err == nil {
		err = s.store.Set(ctx, s.storeKey, data)
	}
	s.afterPersistLocked(op, err)
}

// afterPersistLocked lỗi ghi store chỉ được log và đếm, không rollback bộ nhớ
func (s *LockerService) afterPersistLocked(op string, err error) {
	if err != nil {
		s.persistFailures.Add(1)
		s.logger.Error("Lỗi lưu custom records", zap.String("op", op), zap.Error(err))
	}

	s.logger.Info("Đã cập nhật custom records",
		zap.String("op", op),
		zap.Int("custom_records", len(s.custom)),
		zap.Uint64("generation", s.snap.Load().generation))
}

// swapLocked dựng index mới từ base + custom và thay snapshot nguyên khối
func (s *LockerService) swapLocked(custom []index.RawRecord) {
	var gen uint64 = 1
	if old := s.snap.Load(); old != nil {
		gen = old.generation + 1
	}

	ix := index.Build(s.base, custom)
	s.snap.Store(&snapshot{matcher: search.NewMatcher(ix, s.opts), generation: gen})
	s.custom = custom
	s.cache.Purge()

	if s.mirrorCh != nil {
		// pool đang chờ chưa đẩy thì bị thay bằng pool mới hơn
		select {
		case <-s.mirrorCh:
		default:
		}
		s.mirrorCh <- mirrorJob{pool: ix.Pool(), generation: gen}
	}
}

// runMirror worker duy nhất đẩy pool sang mirror theo đúng thứ tự generation
func (s *LockerService) runMirror(jobs <-chan mirrorJob) {
	defer s.mirrorWG.Done()

	for job := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.mirror.Sync(ctx, job.pool); err != nil {
			s.logger.Warn("Lỗi đồng bộ mirror", zap.Uint64("generation", job.generation), zap.Error(err))
		}
		cancel()
	}
}

// Close dừng mirror worker sau khi đẩy xong pool đang chờ
func (s *LockerService) Close() {
	s.mu.Lock()
	ch := s.mirrorCh
	s.mirrorCh = nil
	s.mu.Unlock()

	if ch != nil {
		close(ch)
		s.mirrorWG.Wait()
	}
}

func (s *LockerService) findLocked(key string) int {
	if key == "" {
		return -1
	}
	for i, rec := range s.custom {
		if RecordKey(rec) == key || MergeKey(rec) == key {
			return i
		}
	}
	return -1
}

func (s *LockerService) duplicateLocked(addrNorm, box string, skip int) bool {
	for i, rec := range s.custom {
		if i == skip {
			continue
		}
		if mergeAddress(rec) == addrNorm && rec.First(index.BoxNoAliases) == box {
			return true
		}
	}
	return false
}

// RecordKey key merge của record: id, nếu không có thì địa chỉ|box
func RecordKey(rec index.RawRecord) string {
	if id := rec.First(index.IDAliases); id != "" {
		return id
	}
	return MergeKey(rec)
}

// MergeKey key địa chỉ chuẩn hóa|box
func MergeKey(rec index.RawRecord) string {
	return mergeAddress(rec) + "|" + rec.First(index.BoxNoAliases)
}

func mergeAddress(rec index.RawRecord) string {
	for _, aliases := range [][]string{index.AddrNormAliases, index.AddrRawAliases, index.DisplayAliases} {
		if v := normalizer.Normalize(rec.First(aliases)); v != "" {
			return v
		}
	}
	return ""
}

func validateInput(in RecordInput) (string, string, parser.ParsedAddress, error) {
	box := normalizer.Normalize(in.BoxNo)
	if strings.TrimSpace(in.Address) == "" || box == "" {
		return "", "", parser.ParsedAddress{}, ErrMissingFields
	}

	addrNorm := normalizer.ExpandAbbreviation(in.Address)
	p := parser.ParseAddress(addrNorm)
	if !p.HasRoadAndNumber() {
		return "", "", p, fmt.Errorf("%w: %q", ErrUnparseableAddress, in.Address)
	}
	return addrNorm, box, p, nil
}

// buildCustomRecord dựng record theo cùng schema với dataset gốc
func buildCustomRecord(id, addrNorm, box string, in RecordInput, p parser.ParsedAddress) index.RawRecord {
	rec := index.RawRecord{
		"id":      id,
		"row_id":  nil,
		"箱號_int":  boxValue(box),
		"display": addrNorm,
		"road":    p.Road,
		"section": nil,
		"lane":    numberOrNil(p.Lane),
		"alley":   numberOrNil(p.Alley),
		"no":      p.NoMain,
		"floor":   nil,
		"備註":      strings.TrimSpace(in.Note),
		"地址":      addrNorm,
		"地址_norm": addrNorm,
		"issues":  "",
	}
	if p.NoSub != "" {
		rec["no_sub"] = p.NoSub
	}
	if p.Floor != "" {
		rec["floor"] = p.Floor
	}
	if borrower := strings.TrimSpace(in.Borrower); borrower != "" {
		rec["borrower"] = borrower
	}
	return rec
}

// boxValue box dạng số nguyên chuẩn được lưu thành số
func boxValue(box string) interface{} {
	n, err := strconv.ParseInt(box, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != box {
		return box
	}
	return float64(n)
}

func numberOrNil(s string) interface{} {
	if n, err := strconv.Atoi(s); err == nil {
		return float64(n)
	}
	return nil
}
