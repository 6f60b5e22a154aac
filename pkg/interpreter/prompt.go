package interpreter

import (
	"fmt"
	"strings"

	"connector-selector/pkg/catalog"
)

const systemPrompt = "You are an expert in electronic connectors. You turn customer replies into structured requirement values."

func buildAnswerPrompt(text string, q catalog.Question) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString(systemPrompt)
	prompt.WriteString("\n</system>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(fmt.Sprintf("ATTRIBUTE: %s\n", q.Attribute))
	prompt.WriteString(fmt.Sprintf("ASKED: %s\n", q.Prompt))
	if q.Clarification != "" {
		prompt.WriteString(fmt.Sprintf("CONTEXT: %s\n", q.Clarification))
	}
	prompt.WriteString("</question>\n\n")

	if q.ParseGuidance != "" {
		prompt.WriteString("<parsing_rules>\n")
		prompt.WriteString(strings.TrimSpace(q.ParseGuidance))
		prompt.WriteString("\nIf the user does not know or gives no requirement, the value is null.\n")
		prompt.WriteString("</parsing_rules>\n\n")
	}

	prompt.WriteString("<user_reply>\n")
	prompt.WriteString(text)
	prompt.WriteString("\n</user_reply>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"value\": \"parsed value (number, boolean, string, list or null)\",\n")
	prompt.WriteString("  \"confidence\": 0.9,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildBulkPrompt(text string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an expert in analyzing connector requirements.\n")
	prompt.WriteString("Extract technical specifications from user messages, both explicitly mentioned and strongly implied.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(text)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<guidance>\n")
	prompt.WriteString("CONNECTION TYPE (highest priority):\n")
	prompt.WriteString("  - \"board to board\", \"PCB to PCB\", \"board-board\" mean PCB-to-PCB\n")
	prompt.WriteString("  - \"PCB to cable\", \"board to wire\" mean PCB-to-Cable\n")
	prompt.WriteString("  - PCB mentioned together with AWG, wire or cable means PCB-to-Cable\n")
	prompt.WriteString("LOCATION:\n")
	prompt.WriteString("  - \"on board\", \"onboard\", \"in box\", \"inside\" mean internal\n")
	prompt.WriteString("  - \"panel mount\", \"external\", \"outside\", \"out of box\" mean external\n")
	prompt.WriteString("HOUSING MATERIAL:\n")
	prompt.WriteString("  - \"metal\", \"metallic\" or any EMI shielding need means metal\n")
	prompt.WriteString("MIXED POWER SIGNAL:\n")
	prompt.WriteString("  - \"mixed signal\", \"mixed power\", \"high power\" mean true; signal only means false\n")
	prompt.WriteString("</guidance>\n\n")

	prompt.WriteString("<attributes>\n")
	prompt.WriteString("  - pitch_size (mm)\n")
	prompt.WriteString("  - pin_count (integer)\n")
	prompt.WriteString("  - max_current (Amps)\n")
	prompt.WriteString("  - temp_range (maximum Celsius)\n")
	prompt.WriteString("  - emi_protection (boolean)\n")
	prompt.WriteString("  - height_requirement (mm)\n")
	prompt.WriteString("  - wire_gauge (AWG integer)\n")
	prompt.WriteString("  - mixed_power_signal (boolean)\n")
	prompt.WriteString("  - housing_material (\"metal\" or \"plastic\")\n")
	prompt.WriteString("  - location (\"internal\" or \"external\")\n")
	prompt.WriteString("  - right_angle (boolean: true if right-angle, false if straight)\n")
	prompt.WriteString("  - connector_orientation (boolean: true if straight, false if right-angle)\n")
	prompt.WriteString("  - connection_types (\"PCB-to-PCB\", \"PCB-to-Cable\", \"Cable-to-PCB\", \"Cable-to-Cable\")\n")
	prompt.WriteString("</attributes>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON. Include only mentioned or strongly implied attributes:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"pitch_size\": {\"value\": 1.0, \"confidence\": 0.95},\n")
	prompt.WriteString("  \"wire_gauge\": {\"value\": 26, \"confidence\": 0.9},\n")
	prompt.WriteString("  \"location\": {\"value\": \"internal\", \"confidence\": 0.9}\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}
