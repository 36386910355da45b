package dataset

// Schema names the tables and columns of the input dataset. It is configuration, fixed
// at startup; header names are matched after trimming and upper-casing.
type Schema struct {
	Info         InfoSchema        `mapstructure:"info"`
	Parameters   ParameterSchema   `mapstructure:"parameters"`
	Observations ObservationSchema `mapstructure:"observations"`
	Statistics   StatisticSchema   `mapstructure:"statistics"`
	Trends       TrendSchema       `mapstructure:"trends"`
	// LevelAliases maps extra level spellings found in the data to level codes.
	LevelAliases map[string]string `mapstructure:"level_aliases"`
}

// InfoSchema describes the entity table. When the Level column is present the table is
// read as one row per entity; otherwise every Wide group contributes one entity per row.
type InfoSchema struct {
	Table   string      `mapstructure:"table" validate:"required"`
	Name    string      `mapstructure:"name" validate:"required"`
	Level   string      `mapstructure:"level" validate:"required"`
	Cluster string      `mapstructure:"cluster" validate:"required"`
	Wide    []WideGroup `mapstructure:"wide" validate:"dive"`
}

type WideGroup struct {
	Level   string `mapstructure:"level" validate:"required"`
	Name    string `mapstructure:"name" validate:"required"`
	Cluster string `mapstructure:"cluster" validate:"required"`
}

type ParameterSchema struct {
	Table         string `mapstructure:"table" validate:"required"`
	Indicator     string `mapstructure:"indicator" validate:"required"`
	Theme         string `mapstructure:"theme" validate:"required"`
	Definition    string `mapstructure:"definition"`
	ExpectedValue string `mapstructure:"expected_value"`
	Formula       string `mapstructure:"formula"`
}

type ObservationSchema struct {
	Table     string `mapstructure:"table" validate:"required"`
	Entity    string `mapstructure:"entity" validate:"required"`
	Indicator string `mapstructure:"indicator" validate:"required"`
	Year      string `mapstructure:"year" validate:"required"`
	Value     string `mapstructure:"value" validate:"required"`
}

type StatisticSchema struct {
	Table     string `mapstructure:"table" validate:"required"`
	Cluster   string `mapstructure:"cluster" validate:"required"`
	Indicator string `mapstructure:"indicator" validate:"required"`
	Level     string `mapstructure:"level" validate:"required"`
	Year      string `mapstructure:"year" validate:"required"`
	Median    string `mapstructure:"median" validate:"required"`
	Min       string `mapstructure:"min"`
	Max       string `mapstructure:"max"`
}

type TrendSchema struct {
	Table     string `mapstructure:"table" validate:"required"`
	Entity    string `mapstructure:"entity" validate:"required"`
	Indicator string `mapstructure:"indicator" validate:"required"`
	Value     string `mapstructure:"value" validate:"required"`
}

// DefaultSchema is the layout of the data.xlsx workbook the dashboard was built around.
func DefaultSchema() Schema {
	return Schema{
		Info: InfoSchema{
			Table:   "INFO",
			Name:    "PEMDA",
			Level:   "TINGKAT",
			Cluster: "KLASTER",
			Wide: []WideGroup{
				{Level: "Provinsi", Name: "PROVINSI", Cluster: "KLASTER PROVINSI"},
				{Level: "Kabupaten", Name: "KABUPATEN", Cluster: "KLASTER KABUPATEN"},
				{Level: "Kota", Name: "KOTA", Cluster: "KLASTER KOTA"},
			},
		},
		Parameters: ParameterSchema{
			Table:         "PARAMETER",
			Indicator:     "INDIKATOR",
			Theme:         "JENIS",
			Definition:    "DEFINISI",
			ExpectedValue: "NILAI_HARAPAN",
			Formula:       "RUMUS",
		},
		Observations: ObservationSchema{
			Table:     "INDIKATOR",
			Entity:    "PEMDA",
			Indicator: "INDIKATOR",
			Year:      "TAHUN",
			Value:     "NILAI",
		},
		Statistics: StatisticSchema{
			Table:     "MEDIAN",
			Cluster:   "KLASTER",
			Indicator: "INDIKATOR",
			Level:     "TINGKAT",
			Year:      "TAHUN",
			Median:    "MEDIAN",
			Min:       "MIN",
			Max:       "MAX",
		},
		Trends: TrendSchema{
			Table:     "TREN",
			Entity:    "PEMDA",
			Indicator: "INDIKATOR",
			Value:     "NILAI",
		},
	}
}

// TableNames lists the tables the schema reads, in load order.
func (s Schema) TableNames() []string {
	return []string{s.Info.Table, s.Parameters.Table, s.Observations.Table, s.Statistics.Table, s.Trends.Table}
}
