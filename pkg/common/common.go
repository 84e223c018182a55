package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	DateLayout = "2006-01-02"

	CustomerTypeDaily   = "Daily"
	CustomerTypeWedding = "Wedding"
	CustomerTypeParty   = "Party"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 generates a cluster-unique int64 id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// Sha256Hash returns the lowercase hex sha256 digest of src.
func Sha256Hash(src []byte) string {
	h := sha256.New()
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

// Sha256HashWithSalt hashes src with a salt appended.
func Sha256HashWithSalt(src string, salt string) string {
	return Sha256Hash([]byte(src + salt))
}

// GetSecretSalt reads the shared secret salt from the environment,
// falling back to a fixed development value.
func GetSecretSalt() string {
	if v := os.Getenv("DAIRYLEDGER_SECRET"); v != "" {
		return v
	}
	return "dairyledger-dev-secret"
}

// IsValidCustomerType reports whether t is one of the known customer types.
func IsValidCustomerType(t string) bool {
	switch t {
	case CustomerTypeDaily, CustomerTypeWedding, CustomerTypeParty:
		return true
	}
	return false
}

// IsValidDate reports whether s is a canonical YYYY-MM-DD date string.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (first string, last string, err error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", err
	}
	first = t.Format(DateLayout)
	last = t.AddDate(0, 1, -1).Format(DateLayout)
	return first, last, nil
}
