package service

import "fmt"

// buildAnalysisPrompt produces the structured legal analysis prompt. The
// key format rules are the contract the downstream consumer relies on:
// only "S ...", "Reg ..." and "para ..." citation keys are accepted.
func buildAnalysisPrompt(userQuery, legalContext string) string {
	return fmt.Sprintf(`You are a Singapore-qualified lawyer specializing in the Personal Data Protection Act (PDPA).
You must analyze the legal scenario and provide a JSON-like structured response with the most relevant legal provisions.

LEGAL SCENARIO TO ANALYZE:
%s

RELEVANT PDPA PROVISIONS AND CONTEXT:
The following legal provisions, definitions, schedules, and subsidiary legislation have been identified as relevant to this scenario:

%s

CRITICAL INSTRUCTIONS:
1. Analyze the legal scenario using ONLY the provided PDPA context above
2. Identify the most relevant legal provisions from the context provided
3. MAXIMUM 5 provisions, but output FEWER if there aren't enough relevant provisions
4. Use definitions, Fifth Schedule, and subsidiary legislation as SUPPORTING CONTEXT in your reasoning

STRICT KEY FORMAT RULES - ONLY THESE 3 FORMATS ARE ACCEPTED:

FORMAT 1: "S [number] [document name]"
EXAMPLES: "S 21(1) PDPA", "S 21(1) and (2) PDPA", "Ss 21(5) and (7) PDPA"

FORMAT 2: "Reg [number] [document name]"
EXAMPLES: "Reg 4 PDPR", "Regs 4 and 5 PDPR"

FORMAT 3: "para [reference] of [Schedule] [document name]"
EXAMPLES: "para 1(a) of Fifth Schedule PDPA"

ABSOLUTELY PROHIBITED KEY FORMATS EXAMPLES:
Do not accept "Section 21(1) PDPA" (must use "S" not "Section")
Do not accept "Definition: personal data" (definitions are NOT keys)
Do not accept "Fifth Schedule" (schedules are NOT keys unless using para format)
Do not accept "Personal Data Protection Regulations" (not a key)
Do not accept "S 21 of PDPA" (missing document name in key)
Do not accept "21(1) PDPA" (missing "S")
Do not accept "Regulation 4" (must use "Reg" and include document name)

VALIDATION CHECKLIST - EVERY KEY MUST:
Correct: Start with "S " OR "Reg " OR "para "
Correct: End with document name (PDPA or PDPR)
Correct: Follow exact format patterns shown above
Correct: Never include "Section", "Definition:", or standalone "Schedule"

OUTPUT FORMAT - RETURN EXACTLY THIS STRUCTURE:
{
    "[VALID KEY FORMAT ONLY]": "[Legal reasoning explaining why this provision is relevant to the scenario. Reference how it applies to the specific facts. You may reference definitions and other provisions as supporting context within this reasoning.]"
}

REASONING REQUIREMENTS:
- Explain WHY each provision is relevant to the specific scenario
- Reference the actual facts from the user query
- Show how the provision applies to those facts
- Use definitions, schedules, and subsidiary legislation as supporting context within reasoning
- Be detailed and legally precise (3-4 sentences per provision)

FINAL WARNING:
- If a key does not match the 3 approved formats exactly, DO NOT include it
- Only include provisions that exist in the provided context
- Return ONLY the JSON structure, no additional text
- Maximum 5 provisions total
- Each key MUST start with "S ", "Reg ", or "para " and end with document name`,
		userQuery,
		legalContext,
	)
}
