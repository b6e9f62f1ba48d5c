package config

import (
	"os"
	"strconv"
	"time"

	"github.com/mailbox-locator/internal/search"
	"gopkg.in/yaml.v3"
)

type SuggestCfg struct {
	Limit    int     `yaml:"limit" json:"limit"`
	MinScore float64 `yaml:"min_score" json:"min_score"`
}

type CacheCfg struct {
	Size int `yaml:"size" json:"size"`
}

type MirrorCfg struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	IndexName string `yaml:"index_name" json:"index_name"`
	BatchSize int    `yaml:"batch_size" json:"batch_size"`
}

type RateLimitCfg struct {
	RPS   float64 `yaml:"rps" json:"rps"`
	Burst int     `yaml:"burst" json:"burst"`
}

type MatcherCfg struct {
	FuzzyLimit int          `yaml:"fuzzy_limit" json:"fuzzy_limit"`
	Suggest    SuggestCfg   `yaml:"suggest" json:"suggest"`
	Cache      CacheCfg     `yaml:"cache" json:"cache"`
	Mirror     MirrorCfg    `yaml:"mirror" json:"mirror"`
	RateLimit  RateLimitCfg `yaml:"rate_limit" json:"rate_limit"`
}

var C = Default()

// Default cấu hình mặc định khi không có file
func Default() MatcherCfg {
	return MatcherCfg{
		FuzzyLimit: 50,
		Suggest:    SuggestCfg{Limit: 5, MinScore: 0.6},
		Cache:      CacheCfg{Size: 1024},
		Mirror:     MirrorCfg{IndexName: "mailbox_records", BatchSize: 1000},
		RateLimit:  RateLimitCfg{RPS: 5, Burst: 10},
	}
}

// Load đọc file yaml đè lên giá trị mặc định, sau đó áp ENV overrides
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return err
	}
	applyEnv(&cfg)
	C = cfg
	return nil
}

func applyEnv(cfg *MatcherCfg) {
	if v, err := strconv.Atoi(os.Getenv("FUZZY_LIMIT")); err == nil && v > 0 {
		cfg.FuzzyLimit = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOOKUP_CACHE_SIZE")); err == nil && v > 0 {
		cfg.Cache.Size = v
	}
	switch os.Getenv("MEILI_MIRROR") {
	case "0":
		cfg.Mirror.Enabled = false
	case "1":
		cfg.Mirror.Enabled = true
	}
}

// SearchOptions tham số Matcher từ cấu hình
func (c MatcherCfg) SearchOptions() search.Options {
	return search.Options{
		FuzzyLimit:      c.FuzzyLimit,
		SuggestLimit:    c.Suggest.Limit,
		SuggestMinScore: c.Suggest.MinScore,
	}
}

// ShutdownTimeout thời gian chờ request đang xử lý khi tắt service
func ShutdownTimeout() time.Duration { return 5 * time.Second }
