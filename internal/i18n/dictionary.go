// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package i18n

import "strings"

// Dictionary is the set of UI strings for one language, keyed by
// "section.key".
type Dictionary map[string]string

// T returns the string for key, or the key itself if it is missing.
// Pairs of placeholder/value arguments replace {placeholder} occurrences.
func (d Dictionary) T(key string, pairs ...string) string {
	s, ok := d[key]
	if !ok {
		return key
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		s = strings.ReplaceAll(s, "{"+pairs[i]+"}", pairs[i+1])
	}
	return s
}

var dictionaries = map[Lang]Dictionary{
	English: {
		"nav.brand":                     "Game of Trivia",
		"home.welcomeTo":                "Welcome to",
		"home.subtitle":                 "Challenge Your Knowledge.",
		"home.questionsAvailable":       "questions available",
		"home.categories":               "categories",
		"home.chooseCategory":           "Choose a Quiz Category",
		"home.pickCategory":             "Pick a category and let the quiz begin!",
		"home.noCategories":             "No categories available yet.",
		"home.startQuiz":                "Start the Quiz",
		"home.quickQuizTitle":           "Quick Quiz",
		"home.quickQuizSubtitle":        "Random questions from all categories",
		"quickquiz.title":               "Quick Quiz",
		"quickquiz.subtitle":            "Random questions from all categories. How many can you get right?",
		"quickquiz.noQuestions":         "No questions available yet.",
		"quickquiz.allCategories":       "All Categories",
		"category.backToCategories":     "Back to Categories",
		"category.noQuestions":          "No questions in this category yet.",
		"quiz.questionOf":               "Question {current} of {total}",
		"quiz.all":                      "All",
		"quiz.noQuestionsInSubcategory": "No questions in this subcategory yet.",
		"quiz.typeYourAnswer":           "Type your answer...",
		"quiz.correct":                  "Correct!",
		"quiz.incorrect":                "Incorrect. Try again or show the answer.",
		"quiz.theAnswerIs":              "The answer is:",
		"quiz.didYouKnow":               "Did you know?",
		"quiz.checkAnswer":              "Check Answer",
		"quiz.showAnswer":               "Show Answer",
		"quiz.previous":                 "Previous",
		"quiz.next":                     "Next",
		"categoryCard.question":         "question",
		"categoryCard.questions":        "questions",
		"sidebar.home":                  "Home",
		"sidebar.quickQuiz":             "QuickQuiz",
	},
	Dutch: {
		"nav.brand":                     "Game of Trivia",
		"home.welcomeTo":                "Welkom bij",
		"home.subtitle":                 "Daag je kennis uit.",
		"home.questionsAvailable":       "vragen beschikbaar",
		"home.categories":               "categorieën",
		"home.chooseCategory":           "Kies een quizcategorie",
		"home.pickCategory":             "Kies een categorie en begin de quiz!",
		"home.noCategories":             "Nog geen categorieën beschikbaar.",
		"home.startQuiz":                "Begin de quiz",
		"home.quickQuizTitle":           "Snelle Quiz",
		"home.quickQuizSubtitle":        "Willekeurige vragen uit alle categorieën",
		"quickquiz.title":               "Snelle Quiz",
		"quickquiz.subtitle":            "Willekeurige vragen uit alle categorieën. Hoeveel weet jij?",
		"quickquiz.noQuestions":         "Nog geen vragen beschikbaar.",
		"quickquiz.allCategories":       "Alle Categorieën",
		"category.backToCategories":     "Terug naar categorieën",
		"category.noQuestions":          "Nog geen vragen in deze categorie.",
		"quiz.questionOf":               "Vraag {current} van {total}",
		"quiz.all":                      "Alle",
		"quiz.noQuestionsInSubcategory": "Nog geen vragen in deze subcategorie.",
		"quiz.typeYourAnswer":           "Typ je antwoord...",
		"quiz.correct":                  "Goed!",
		"quiz.incorrect":                "Fout. Doe nog een poging of toon het antwoord.",
		"quiz.theAnswerIs":              "Het antwoord is:",
		"quiz.didYouKnow":               "Wist je dat?",
		"quiz.checkAnswer":              "Controleer antwoord",
		"quiz.showAnswer":               "Toon antwoord",
		"quiz.previous":                 "Vorige",
		"quiz.next":                     "Volgende",
		"categoryCard.question":         "vraag",
		"categoryCard.questions":        "vragen",
		"sidebar.home":                  "Home",
		"sidebar.quickQuiz":             "Snelle Quiz",
	},
}

// DictionaryFor returns the UI strings of l, falling back to the base language.
func DictionaryFor(l Lang) Dictionary {
	if d, ok := dictionaries[l]; ok {
		return d
	}
	return dictionaries[Base]
}
