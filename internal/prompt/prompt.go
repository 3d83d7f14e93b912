// Package prompt builds the prompts sent to the generative-text provider.
// Wording is deliberately rigid: downstream parsers depend on the response
// formats these prompts request.
package prompt

import "fmt"

// Education asks why a component of e-waste is harmful.
func Education(topic string) string {
	return fmt.Sprintf(
		"Explain why '%s' in electronic waste (e-waste) is harmful to human health and the environment. "+
			"Focus specifically on '%s' as an e-waste component. If '%s' is not typically found in e-waste, "+
			"clarify that and suggest relevant e-waste components instead. Keep the explanation to 3-4 clear sentences.",
		topic, topic, topic,
	)
}

// EcoTip asks for one daily tip. The date varies the output between days.
func EcoTip(date string) string {
	return fmt.Sprintf(
		"Provide one practical eco-friendly tip for daily life, related to e-waste, energy saving, or recycling. "+
			"Keep it to 1-2 sentences, friendly in tone. Date context: %s.",
		date,
	)
}

// Quiz asks for a five-question multiple-choice quiz in the line format
// aitext.ParseQuiz understands.
func Quiz() string {
	return "Create 5 multiple-choice questions about e-waste, sustainability, or recycling. " +
		"For each question, include exactly 4 options labeled A, B, C, D and provide the correct answer letter. " +
		"Return clearly; keep questions concise."
}

// Decision asks for a recycle-or-reuse recommendation with the
// RECOMMENDATION: marker line.
func Decision(item string) string {
	return fmt.Sprintf(
		"Analyze the item '%s' and determine if it should be RECYCLED or REUSED. "+
			"Consider: Can it be repaired and used again? Is it too old or broken? "+
			"Respond in this exact format: First line: 'RECOMMENDATION: [Recycle OR Reuse]' "+
			"Second line: A brief 2-3 sentence explanation of why this is the best option, "+
			"focusing specifically on '%s' and its condition/age.",
		item, item,
	)
}

// Reuse asks for a sell/donate/repair/recycle recommendation.
func Reuse(deviceModel, condition, age string) string {
	if deviceModel == "" {
		deviceModel = "electronic device"
	}
	if condition == "" {
		condition = "unspecified"
	}
	if age == "" {
		age = "unknown"
	}
	return fmt.Sprintf(
		"For a %s that is %s years old with condition: %s, "+
			"recommend the best action: SELL, DONATE, REPAIR, or RECYCLE. "+
			"Format your response as: 'RECOMMENDATION: [Action]' on first line, "+
			"then 2-3 sentences explaining why this is best, considering age, condition, and environmental impact.",
		deviceModel, age, condition,
	)
}

// Value asks for recoverable metal content and prices in the exact format
// aitext.ParseMetals extracts.
func Value(deviceModel string, ageYears float64) string {
	return fmt.Sprintf(
		"For the electronic device '%s' that is %g years old, "+
			"provide the approximate recoverable precious metals in GRAMS: "+
			"gold, copper, and silver. Also provide current market prices in INR per gram. "+
			"Format your response as: 'Gold: X.XX g, Copper: YY.Y g, Silver: Z.ZZ g. "+
			"Prices: Gold ₹AAAA per g, Copper ₹BB per g, Silver ₹CCC per g.' "+
			"Be specific and accurate for '%s'.",
		deviceModel, ageYears, deviceModel,
	)
}

// Hazard asks how an e-waste component harms health and environment.
func Hazard(component string) string {
	return fmt.Sprintf(
		"Explain how '%s' as an ELECTRONIC WASTE COMPONENT (from discarded electronics like phones, laptops, TVs) "+
			"can harm the environment and human health when improperly disposed. "+
			"If '%s' is NOT typically found in e-waste (like paper, plastic bags, etc.), "+
			"clarify that it's not an e-waste component and suggest relevant e-waste components instead. "+
			"Keep response to 3-4 sentences, focusing on soil contamination, water pollution, and health risks in Indian context.",
		component, component,
	)
}

// CollectorsInsight asks for a one-line fact for the collector directory.
func CollectorsInsight() string {
	return "Generate one short sentence (factual) about how most of India's e-waste is handled informally " +
		"and why connecting with verified collectors matters."
}
