package types

// ClaimState tracks a score claim through its asynchronous stages.
type ClaimState string

const (
	ClaimStatePending   ClaimState = "PENDING"
	ClaimStateSucceeded ClaimState = "SUCCEEDED"
	ClaimStateFailed    ClaimState = "FAILED"
)

func (s ClaimState) String() string {
	return string(s)
}

func (s ClaimState) IsFinal() bool {
	return s == ClaimStateSucceeded || s == ClaimStateFailed
}
