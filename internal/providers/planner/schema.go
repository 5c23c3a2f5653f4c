package planner

// planSchemaDescription is the fixed schema sent with every generation and
// revision request. The reply is requested as JSON-only; anything the model
// gets wrong structurally is repaired downstream rather than retried here.
const planSchemaDescription = `{
  "intent_summary": string,
  "content_goal": string,
  "primary_platform": string,
  "platforms": string[],
  "content_type": "single" | "carousel" | "story" | "reel",
  "carousel": {"slide_count": number, "theme": string, "slides": [{"index": number, "purpose": string, "headline": string, "body": string, "image_prompt": string}]},
  "visual_prompt": {"global_style": string, "aspect_ratio": string, "slides": [{"index": number, "image_prompt": string, "full_prompt": string}]},
  "caption": {"primary": string, "hook": string, "cta": string, "platform_overrides": {platform: string}},
  "title": {"generic": string, "platform_overrides": {platform: string}},
  "hashtags": {"primary": string[], "niche": string[], "trending": string[], "brand": string[], "platform_sets": {platform: string[]}},
  "seo": {"score": number 0-100, "score_category": "Poor" | "Ok" | "Good" | "Great", "score_breakdown": {dimension: {"score": number, "max": number, "rationale": string}}, "improvement_report": string[]},
  "guardrails_check": {"pass": boolean, "violations": string[], "notes": string}
}`
