package fir

import (
	"fmt"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
)

const extractionSystem = "You are a JSON extraction assistant. Return only valid JSON."

const summarySystem = "You are a police report summarizer. Create concise, clear summaries."

func extractionPrompt(complaintText string, template schema.Tree) string {
	return fmt.Sprintf(`You are a police officer assistant helping to extract structured information from complaint texts.

Given the following complaint text, extract all relevant information and fill in the FIR schema.
For any fields you cannot determine from the text, use null.

COMPLAINT TEXT:
%s

FIR SCHEMA TO FILL:
%s

INSTRUCTIONS:
1. Extract dates in YYYY-MM-DD format
2. Extract times in HH:MM format (24-hour)
3. For offense_type, choose from: theft, robbery, assault, fraud, cheating, intimidation, extortion, harassment, other
4. Extract phone numbers in 10-digit format
5. Identify all persons mentioned and their roles (complainant, victim, accused, witness)
6. Extract monetary amounts as numbers only
7. For addresses, include as much detail as available
8. Set 'is_continuing' to true if the offense is still ongoing
9. Keep the original complaint text in 'original_text' field
10. For unknown information, use null

Return ONLY a valid JSON object matching the schema structure. No additional text or explanations.`,
		complaintText, schema.TemplateJSON(template))
}

func summaryPrompt(prettyJSON string) string {
	return fmt.Sprintf(`Based on the following FIR data, generate a concise 5-7 line summary for police officers.

FIR DATA:
%s

INSTRUCTIONS:
Generate a brief, clear summary that captures:
1. Who the complainant is (name and basic info)
2. What happened (offense type and key facts)
3. Where and when the incident occurred
4. Against whom (if known)
5. What loss/damage occurred

Format as a readable paragraph, not bullet points. Be factual and concise.`, prettyJSON)
}

func refillPrompt(prettyJSON, missingInfo string) string {
	return fmt.Sprintf(`The following FIR data is missing some mandatory information.

CURRENT DATA:
%s

MISSING INFORMATION PROVIDED BY USER:
%s

Please update the JSON with the provided information and return the complete, validated JSON structure.
Ensure all mandatory fields are now filled.

Return ONLY a valid JSON object. No additional text or explanations.`, prettyJSON, missingInfo)
}
