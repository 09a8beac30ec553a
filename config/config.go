package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// feel of the game and the limits of the api.
var (
	MoveInterval = time.Duration(getEnvInt("MOVE_INTERVAL_MS", 300)) * time.Millisecond
	CellSize     = getEnvInt("CELL_SIZE", 20)
	FoodAttempts = getEnvInt("FOOD_ATTEMPTS", 64)
	StoreTimeout = time.Duration(getEnvInt("STORE_TIMEOUT_MS", 500)) * time.Millisecond
	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 5)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 2)
	MaxSessions  = getEnvInt("MAX_SESSIONS", 256)
	InputRate    = rate.Limit(getEnvInt("INPUT_RPS", 30))
	InputBurst   = getEnvInt("INPUT_BURST", 10)
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}
