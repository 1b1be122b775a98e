// Package insight derives low-cardinality cache keys from high-cardinality
// financial inputs and serves commentary through a heuristics → cache →
// provider pipeline. Bucketing collapses continuous values into coarse
// equivalence classes so that one generated response can serve every
// semantically equivalent profile.
package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strings"
)

// Bucket sizes. Coarse buckets for high-level aggregates; debt gets a finer
// bucket because small debt differences change the advice more than small
// income differences do. These must not change casually: any change
// invalidates every key in the external store at once.
const (
	incomeBucket = 5000
	assetsBucket = 5000
	debtBucket   = 500
	ageBucket    = 5

	resultBucket = 1000
	rateBucket   = 0.1
)

// Profile is the raw input a commentary request carries about the user.
type Profile struct {
	AnnualIncome float64 `json:"annualIncome"`
	TotalAssets  float64 `json:"totalAssets"`
	TotalDebt    float64 `json:"totalDebt"`
	Age          float64 `json:"age"`
	Goal         string  `json:"goal"`
	Timeline     string  `json:"timeline"`
}

// bucketedProfile is the canonical record that gets hashed. Field order is
// fixed by the struct; encoding/json emits struct fields in declaration
// order, so identical bucketed profiles always serialize identically.
type bucketedProfile struct {
	Income   float64 `json:"income"`
	Assets   float64 `json:"assets"`
	Debt     float64 `json:"debt"`
	Age      float64 `json:"age"`
	Goal     string  `json:"goal"`
	Timeline string  `json:"timeline"`
}

// HashProfile buckets the profile and returns the SHA-256 hex digest of its
// canonical serialization.
func HashProfile(p Profile) string {
	record := bucketedProfile{
		Income:   bucket(p.AnnualIncome, incomeBucket),
		Assets:   bucket(p.TotalAssets, assetsBucket),
		Debt:     bucket(p.TotalDebt, debtBucket),
		Age:      bucket(p.Age, ageBucket),
		Goal:     normalizeText(p.Goal),
		Timeline: normalizeText(p.Timeline),
	}
	return digest(record)
}

// CalcKey identifies a calculator run for result-level caching: the dominant
// result figure (final balance or total payment) bucketed to 1,000, the rate
// bucketed to 0.1, and the horizon verbatim.
type CalcKey struct {
	CalculatorID string
	Dominant     float64
	RatePct      float64
	Years        int
}

type bucketedCalc struct {
	Calculator string  `json:"calculator"`
	Dominant   float64 `json:"dominant"`
	Rate       float64 `json:"rate"`
	Years      int     `json:"years"`
}

// HashCalculation buckets the calculator key and hashes it.
func HashCalculation(k CalcKey) string {
	record := bucketedCalc{
		Calculator: normalizeText(k.CalculatorID),
		Dominant:   bucket(k.Dominant, resultBucket),
		Rate:       bucket(k.RatePct, rateBucket),
		Years:      k.Years,
	}
	return digest(record)
}

// bucket truncates value to the lower boundary of its size-wide bucket, so
// every value in [n*size, (n+1)*size) maps to n*size.
func bucket(value, size float64) float64 {
	if size <= 0 {
		return value
	}
	return math.Floor(value/size) * size
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func digest(record interface{}) string {
	canonical, err := json.Marshal(record)
	if err != nil {
		// Marshal of a flat struct of numbers and strings cannot fail.
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
