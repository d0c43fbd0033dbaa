package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// Defaults match the fixed array size the record stores were sized for.
const (
	DefaultPatientCapacity     = 1000
	DefaultHashTableSize       = 1000
	DefaultAppointmentCapacity = 1000
)

type Config struct {
	PatientCapacity     int
	HashTableSize       int
	AppointmentCapacity int
	PatientsFile        string
	AppointmentsFile    string
	LogLevel            string
	LogFormat           string
	LogFile             string
	NoColor             bool
}

// Parse reads flags from args. Every flag falls back to a CLINICDB_*
// environment variable and then to a built-in default.
func Parse(name string, args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.PatientCapacity, "patients-capacity", envInt("CLINICDB_PATIENTS_CAPACITY", DefaultPatientCapacity), "patient store capacity")
	fs.IntVar(&cfg.HashTableSize, "hash-size", envInt("CLINICDB_HASH_SIZE", DefaultHashTableSize), "patient hash table size")
	fs.IntVar(&cfg.AppointmentCapacity, "appointments-capacity", envInt("CLINICDB_APPOINTMENTS_CAPACITY", DefaultAppointmentCapacity), "appointment store capacity")
	fs.StringVar(&cfg.PatientsFile, "patients", envStr("CLINICDB_PATIENTS_FILE", ""), "patient file to import on startup")
	fs.StringVar(&cfg.AppointmentsFile, "appointments", envStr("CLINICDB_APPOINTMENTS_FILE", ""), "appointment file to import on startup")
	fs.StringVar(&cfg.LogLevel, "log-level", envStr("CLINICDB_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", envStr("CLINICDB_LOG_FORMAT", "text"), "log format (text, json)")
	fs.StringVar(&cfg.LogFile, "log-file", envStr("CLINICDB_LOG_FILE", ""), "log file (stderr when empty)")
	fs.BoolVar(&cfg.NoColor, "no-color", envBool("CLINICDB_NO_COLOR", false), "disable styled output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the stores cannot be built with.
func (c *Config) Validate() error {
	if c.PatientCapacity <= 0 {
		return errors.New("patients-capacity must be positive")
	}
	if c.HashTableSize <= 0 {
		return errors.New("hash-size must be positive")
	}
	if c.AppointmentCapacity <= 0 {
		return errors.New("appointments-capacity must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.New("log-format must be text or json")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
