package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Year = int

// Level is the administrative level of a governed unit.
type Level string

const (
	LevelProvince Level = "province"
	LevelRegency  Level = "regency"
	LevelCity     Level = "city"
)

var Levels = []Level{LevelProvince, LevelRegency, LevelCity}

var levelLabels = map[Level]string{
	LevelProvince: "Provinsi",
	LevelRegency:  "Kabupaten",
	LevelCity:     "Kota",
}

func (l Level) Label() string {
	return levelLabels[l]
}

func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

// ParseLevel accepts a level code or its label in any case.
func ParseLevel(s string) (Level, bool) {
	k := Key(s)
	for _, l := range Levels {
		if k == string(l) || k == Key(l.Label()) {
			return l, true
		}
	}
	return "", false
}

// Theme groups indicators into performance and condition analyses.
type Theme string

const (
	ThemePerformance Theme = "performance"
	ThemeCondition   Theme = "condition"
)

var Themes = []Theme{ThemePerformance, ThemeCondition}

var themeLabels = map[Theme]string{
	ThemePerformance: "Kinerja Keuangan",
	ThemeCondition:   "Kondisi Keuangan",
}

func (t Theme) Label() string {
	return themeLabels[t]
}

func ParseTheme(s string) (Theme, bool) {
	k := Key(s)
	for _, t := range Themes {
		if k == string(t) || k == Key(t.Label()) {
			return t, true
		}
	}
	return "", false
}

type Entity struct {
	Name       string `json:"name"`
	Key        string `json:"-"`
	Level      Level  `json:"level"`
	Cluster    string `json:"cluster"`
	ClusterKey string `json:"-"`
}

type IndicatorDefinition struct {
	Name          string `json:"name"`
	Key           string `json:"-"`
	Theme         Theme  `json:"theme"`
	Definition    string `json:"definition,omitempty"`
	ExpectedValue string `json:"expected_value,omitempty"`
	Formula       string `json:"formula,omitempty"`
}

// Observation is one (entity, indicator, year) value. Raw holds the cell as loaded;
// it is either a number or a qualitative note, see Numeric.
type Observation struct {
	Entity       string `json:"entity"`
	EntityKey    string `json:"-"`
	Indicator    string `json:"indicator"`
	IndicatorKey string `json:"-"`
	Year         Year   `json:"year"`
	Raw          string `json:"value"`
}

// Numeric reports the numeric reading of the observation. A value that is not a finite
// decimal number is a text observation.
func (o Observation) Numeric() (decimal.Decimal, bool) {
	return ParseNumber(o.Raw)
}

// ParseNumber reads a decimal that also fits a finite float64, since charts plot floats.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ClusterStatistic is an externally computed aggregate for a peer group.
type ClusterStatistic struct {
	Cluster      string              `json:"cluster"`
	ClusterKey   string              `json:"-"`
	Indicator    string              `json:"indicator"`
	IndicatorKey string              `json:"-"`
	Level        Level               `json:"level"`
	Year         Year                `json:"year"`
	Min          decimal.NullDecimal `json:"min"`
	Max          decimal.NullDecimal `json:"max"`
	Median       decimal.NullDecimal `json:"median"`
}

type PairKey struct {
	EntityKey    string
	IndicatorKey string
}

type TrendFlag struct {
	Entity    string
	Indicator string
	Raw       string
}

// Dataset is the normalized, read-only content of one load.
type Dataset struct {
	Source       string
	Version      string
	LoadedAt     time.Time
	Entities     []Entity
	Definitions  []IndicatorDefinition
	Observations []Observation
	Statistics   []ClusterStatistic
	Trends       map[PairKey]TrendFlag
}

// Definition looks an indicator up by name, ignoring case and spacing.
func (d *Dataset) Definition(name string) (IndicatorDefinition, bool) {
	k := Key(name)
	for _, def := range d.Definitions {
		if def.Key == k {
			return def, true
		}
	}
	return IndicatorDefinition{}, false
}
