package llm

import "context"

type purposeKey struct{}

// WithPurpose labels requests made with ctx, for example "qa". The label
// ends up in the request log and in `coursewalk llm` reports.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	purpose, _ := ctx.Value(purposeKey{}).(string)
	if purpose == "" {
		return "unknown"
	}
	return purpose
}
