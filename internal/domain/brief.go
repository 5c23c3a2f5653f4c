package domain

// IntentHints carries the optional clarification answers a user supplied
// before generation.
type IntentHints struct {
	ContentGoal     string
	PrimaryPlatform string
}

// GenerationBrief is the immutable input handed to the structured-generation
// service. It is assembled once by the brief builder and consumed exactly
// once by the plan generator.
type GenerationBrief struct {
	RawInput        string
	IntentHints     IntentHints
	BrandSummary    string
	AssetContext    string
	HistorySummary  string
	PlatformTargets []string
	ContentType     string
	MediaType       MediaType
	AspectRatio     string
}
