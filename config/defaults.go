package config

const (
	defaultColumnDensity = 0.75
	defaultCharacterSet  = "matrix"
	defaultSpeedMin      = 6.0
	defaultSpeedMax      = 18.0
	defaultSpawnRate     = 2.0
	defaultPalette       = "green"
	defaultMaxDrops      = 256
	defaultTrailLength   = 16
	defaultFeedRate      = 1.5
	defaultLogLevel      = "info"

	maxDropCeiling = 4096
)

// Default returns a Config populated with repository defaults
func Default() Config {
	return Config{
		ColumnDensity: defaultColumnDensity,
		CharacterSet:  defaultCharacterSet,
		SpeedMin:      defaultSpeedMin,
		SpeedMax:      defaultSpeedMax,
		SpawnRate:     defaultSpawnRate,
		Palette:       defaultPalette,
		MaxDrops:      defaultMaxDrops,
		TrailLength:   defaultTrailLength,
		FeedRate:      defaultFeedRate,
		LogLevel:      defaultLogLevel,
	}
}
