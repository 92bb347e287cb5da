package assist

// BuildDraftPrompt returns the extraction prompt that turns a free-text
// billing description into a structured invoice draft.
func BuildDraftPrompt(description, currency string) string {
	return `You are an invoicing assistant. Convert the billing description below into a structured invoice draft.

IMPORTANT INSTRUCTIONS:
- Extract EVERY distinct billable item into the "line_items" array. Do not merge or summarize items.
- "quantity" and "rate" are numbers. Hourly work uses hours as quantity and the hourly rate as rate; flat fees use quantity 1.
- "discount_type" is "percentage" or "fixed". If no discount is mentioned, use "percentage" with "discount_value" 0.
- "tax_rate" is a percentage between 0 and 100. If no tax is mentioned, use 0.
- "due_in_days" is the payment term in days. If none is mentioned, use 30.
- Amounts are in ` + currency + `.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, just the raw JSON object:
{
  "client_name": "",
  "line_items": [
    {"description": "", "quantity": 0, "rate": 0}
  ],
  "discount_type": "percentage",
  "discount_value": 0,
  "tax_rate": 0,
  "due_in_days": 30,
  "notes": ""
}

If a field is not present in the description, use empty string for text and 0 for numbers.

Billing description:
` + description
}
