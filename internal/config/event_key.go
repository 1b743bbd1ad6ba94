package config

type EventKeyStruct struct {
	QuizCompleted       string
	ConversationMessage string
}

// EventKey holds the routing keys published on the topic exchange.
var EventKey = &EventKeyStruct{
	QuizCompleted:       "quiz.completed",
	ConversationMessage: "conversation.message",
}
