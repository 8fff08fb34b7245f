package classify

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "document_type": {"type": "string"},
    "legal_area": {"type": "string"},
    "parties": {"type": "array", "items": {"type": "string"}},
    "important_dates": {"type": "array", "items": {"type": "string"}},
    "urgency": {"type": "string", "enum": ["low", "normal", "high", "critical"]},
    "summary": {"type": "string"},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["document_type", "legal_area", "urgency", "summary", "confidence"],
  "additionalProperties": false
}`

const systemPrompt = `You are a legal document analyst. Analyze the given document text and return a classification as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + classificationResponseSchema + `

Rules:
- document_type is a short lowercase label such as "contract", "invoice", "court filing", "correspondence", "power of attorney".
- legal_area is the field of law the document belongs to, such as "commercial", "employment", "family", "criminal", "real estate".
- parties lists the named natural or legal persons involved. Use the names as written. Omit the field if none are named.
- important_dates lists dates that carry legal meaning (deadlines, effective dates, hearing dates) in ISO 8601 where possible.
- urgency reflects how soon action is required: "critical" for imminent deadlines, "low" for archival material.
- summary is 2-3 sentences in the document's language.
- keywords are 3-8 lowercase search terms.
- confidence is your own certainty in this classification, from 0 to 1.
- Base every field on the text. Do not hallucinate parties or dates.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`
