package domain

// Administrative levels that appear in German municipal registers.
const (
	LevelGemeinde         = "Gemeinde"
	LevelStadt            = "Stadt"
	LevelAmt              = "Amt"
	LevelSamtgemeinde     = "Samtgemeinde"
	LevelVerbandsgemeinde = "Verbandsgemeinde"
)

// Municipality is the immutable input record for one discovery/extraction run.
type Municipality struct {
	Name                string
	OfficialName        string
	State               string
	AdministrativeLevel string
	Website             string
}
