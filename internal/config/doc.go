// Package config assembles runtime settings for the NutriScan client tools.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//	defaults -> .env file -> JSON file (-c/-config) -> environment -> flags
//
// The JSON file path comes from the -c/-config flags; other flags are parsed
// with a filtered argument list so they do not collide with flags owned by
// other packages.
package config
