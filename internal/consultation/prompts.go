package consultation

// prompts.go holds the instructional texts forwarded to the conversational
// session. The session uses them as grounding context to phrase the next
// spoken turn; keeping them together makes them easy to tweak without
// touching the phase logic.

import (
	"fmt"
	"strings"
)

// Instructions is the standing system prompt for the conversational session.
const Instructions = "You are a health assistant, you are speaking to a patient. " +
	"Your goal is to collect their personal information, gather their symptoms, and provide initial health assessment. " +
	"Start by collecting or looking up their patient information. Once you have the patient information, " +
	"proceed to collect their symptoms and generate a diagnostic report at the end of the consultation."

// WelcomeMessage opens a new conversation before any utterance arrives.
const WelcomeMessage = "Begin by welcoming the patient to the health assistant service and ask them to provide " +
	"their patient ID to lookup their profile. If they don't have a patient ID or profile, ask them to say " +
	"create profile so you can collect their basic information."

const symptomCollectionText = "Now that we have your basic information, let's discuss your symptoms. " +
	"Please describe what symptoms you're experiencing, including when they started, how severe they are, " +
	"and any other details you think might be relevant. I'll ask follow-up questions to better understand your condition."

const completionConfirmText = "Thank you for providing all this information. Is there anything else you'd like " +
	"to add about your symptoms or condition? If you feel we've covered everything, I can generate your initial " +
	"diagnostic report now."

const reportGenerationText = "I'm now generating your diagnostic report based on the information and symptoms " +
	"you've provided. This report will be saved for your healthcare provider to review. Thank you for using our " +
	"health assistant service. Please call the end_consultation function to generate the report."

const completedAcknowledgment = "Your consultation has been completed and your report has been generated. Thank you!"

func lookupPatientMessage(msg string) string {
	return "If the patient has provided a patient ID attempt to look it up. " +
		"If they don't have a patient ID or the patient ID does not exist in the database " +
		"create the entry in the database using your tools. If the patient doesn't have an ID, ask them for the " +
		"details required to create a new patient profile (name, age, height, gender, blood group, weight). " +
		"Here is the patient's message: " + msg
}

func symptomCollectionMessage(msg string) string {
	return fmt.Sprintf("%s User message: %s", symptomCollectionText, msg)
}

func firstSymptomMessage(msg string) string {
	return "Collect the patient's symptoms. User message: " + msg
}

func symptomFollowUpMessage(symptoms []string, msg string) string {
	return fmt.Sprintf("Based on the symptoms you've mentioned so far: %s, "+
		"I'd like to gather more details. Can you tell me more about the severity, "+
		"duration, or any patterns you've noticed with these symptoms? "+
		"Are there any other symptoms you're experiencing? User message: %s",
		strings.Join(symptoms, ", "), msg)
}

func completionConfirmMessage(msg string) string {
	return fmt.Sprintf("%s User message: %s", completionConfirmText, msg)
}

func resumeSymptomsMessage(msg string) string {
	return "Continue collecting symptoms or information. User message: " + msg
}
