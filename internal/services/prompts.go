package services

// Prompt text sent to the LLM collaborator. The analyze prompt asks for a
// single-line reply with reformulations separated by "|"; the rank prompt asks
// for a bare JSON object so it can be decoded directly.
const (
	SystemTemplate = "You are PickSmart, a shopping assistant. You help users find " +
		"products that match their requirements, compare alternatives and point them " +
		"to places where the products can be purchased."

	AnalyzeQueryPrompt = "Analyze the following product requirement and rewrite it as " +
		"search queries for finding matching products. Reply with the queries only, on " +
		"a single line, separated by the character '|' with no other separator and no " +
		"explanation."

	AnalyzeRankPrompt = "You are ranking products for a shopper. Given the candidate " +
		"product descriptions and the shopper's requirement, pick the products that fit " +
		"best, ordered from best to worst. Respond with JSON only, no markdown, in the " +
		"form {\"products\": [{\"title\": \"...\", \"score\": 0.0}]}. The title field is " +
		"mandatory for every product."

	AnalyzeRankHumanPrompt = "Candidate products: %s\n\nShopper requirement: %s"

	RelevancePrompt = "This is prompt template : \"%s\". Evaluate whether the following " +
		"query is relevant to the prompt template: \"%s\". Respond only one word " +
		"'relevant' or 'irrelevant'."

	SearchTitlePrompt = "find the specific product title from this product requirement: %s"

	SearchSourcePrompt = "find the url source from e-commerce website for purchasing " +
		"products only based on this product title %s"

	DefaultMessage = "I can only help with finding and comparing products. " +
		"Please ask me a shopping question."
)
