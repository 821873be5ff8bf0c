package questionbank

// Sampling defaults.
const (
	defaultPart1Topics    = 3
	questionsPerTopic     = 2
	defaultPart3Questions = 5
)

// topicSet groups questions under a named topic category.
type topicSet struct {
	name      string
	questions []string
}

// part1Topics holds the Part 1 personal-question categories. Order matters
// for deterministic sampling under a fixed seed.
var part1Topics = []topicSet{
	{name: "home", questions: []string{
		"Let's talk about where you live. Can you describe your home?",
		"What do you like most about the area where you live?",
		"How long have you lived in your current home?",
		"Is there anything you would like to change about your home?",
		"Do you prefer living in a house or an apartment? Why?",
	}},
	{name: "work_study", questions: []string{
		"Do you work or are you a student?",
		"What do you enjoy most about your work or studies?",
		"What is the most challenging part of your work or studies?",
		"What are your plans for the future in your career or education?",
		"Did you choose your current field yourself?",
	}},
	{name: "hobbies", questions: []string{
		"What do you like to do in your free time?",
		"How long have you had your current hobby?",
		"Do you prefer spending free time alone or with other people?",
		"Have your hobbies changed since you were a child?",
		"Is there a new hobby you would like to take up?",
	}},
	{name: "family", questions: []string{
		"Can you tell me about your family?",
		"Who are you closest to in your family?",
		"Do you spend much time with your family?",
		"How often do you have meals together as a family?",
		"What activities does your family enjoy doing together?",
	}},
	{name: "food", questions: []string{
		"What kind of food do you like to eat?",
		"Do you prefer eating at home or at restaurants?",
		"Can you cook? What dishes do you make?",
		"Has your diet changed over the years?",
		"Is there a food from your country you would recommend to visitors?",
	}},
	{name: "travel", questions: []string{
		"Do you enjoy travelling?",
		"What is the most interesting place you have visited?",
		"Do you prefer travelling alone or with others?",
		"Is there a country you would particularly like to visit? Why?",
		"How do you usually plan your trips?",
	}},
	{name: "technology", questions: []string{
		"How often do you use the internet?",
		"What do you mainly use your phone for?",
		"Do you think you spend too much time on technology?",
		"What piece of technology could you not live without?",
		"How has technology changed the way you communicate?",
	}},
	{name: "weather", questions: []string{
		"What kind of weather do you like best?",
		"Does the weather affect your mood?",
		"What is the weather usually like in your hometown?",
		"Do you prefer hot weather or cold weather?",
		"Has the weather in your country changed in recent years?",
	}},
}

// academicCueCards are Part 2 long-turn prompts for the academic assessment.
var academicCueCards = []CueCard{
	{
		Topic: "Describe a subject you enjoyed studying at school or university.",
		BulletPoints: []string{
			"what the subject was",
			"who taught it to you",
			"why you found it interesting",
			"and explain how it has influenced your life",
		},
		RoundingOff: []string{
			"Do you still study this subject in any way?",
			"Would you recommend this subject to others?",
		},
	},
	{
		Topic: "Describe a piece of research or a project you worked on.",
		BulletPoints: []string{
			"what the project was about",
			"why you chose it",
			"what you learned from doing it",
			"and explain how you felt when it was finished",
		},
		RoundingOff: []string{
			"Was the project difficult to complete?",
			"Did other people help you with it?",
		},
	},
	{
		Topic: "Describe a book that influenced the way you think.",
		BulletPoints: []string{
			"what the book was",
			"when you first read it",
			"what it was about",
			"and explain why it influenced you",
		},
		RoundingOff: []string{
			"Have you read it more than once?",
			"Do you often recommend books to friends?",
		},
	},
	{
		Topic: "Describe a lecture or talk that you found memorable.",
		BulletPoints: []string{
			"who gave the talk",
			"what it was about",
			"where you heard it",
			"and explain why you remember it so well",
		},
		RoundingOff: []string{
			"Do you enjoy listening to talks or lectures?",
			"Would you like to give a talk yourself one day?",
		},
	},
	{
		Topic: "Describe a skill you learned that helps you in your studies.",
		BulletPoints: []string{
			"what the skill is",
			"how you learned it",
			"how long it took to learn",
			"and explain how it helps you study",
		},
		RoundingOff: []string{
			"Is this a skill most students should learn?",
			"Are there other skills you would like to develop?",
		},
	},
}

// generalCueCards are Part 2 long-turn prompts for the general assessment.
var generalCueCards = []CueCard{
	{
		Topic: "Describe a person who has had a big influence on your life.",
		BulletPoints: []string{
			"who the person is",
			"how you know them",
			"what they have done for you",
			"and explain why they have influenced you so much",
		},
		RoundingOff: []string{
			"Do you still see this person often?",
			"Do you think you influence other people?",
		},
	},
	{
		Topic: "Describe a place you like to visit in your free time.",
		BulletPoints: []string{
			"where the place is",
			"how often you go there",
			"what you do there",
			"and explain why you enjoy visiting it",
		},
		RoundingOff: []string{
			"Do other people you know visit this place too?",
			"Will you keep visiting it in the future?",
		},
	},
	{
		Topic: "Describe a memorable journey you have taken.",
		BulletPoints: []string{
			"where you went",
			"how you travelled",
			"who you were with",
			"and explain why the journey was memorable",
		},
		RoundingOff: []string{
			"Would you take the same journey again?",
			"Do you enjoy long journeys in general?",
		},
	},
	{
		Topic: "Describe a celebration or festival that is important in your culture.",
		BulletPoints: []string{
			"what the celebration is",
			"when it takes place",
			"what people do during it",
			"and explain why it is important to you",
		},
		RoundingOff: []string{
			"Has this celebration changed over the years?",
			"Do young people enjoy it as much as older people?",
		},
	},
	{
		Topic: "Describe something you bought recently that you were happy with.",
		BulletPoints: []string{
			"what you bought",
			"where you bought it",
			"why you bought it",
			"and explain why you were happy with it",
		},
		RoundingOff: []string{
			"Do you often buy things like this?",
			"Is it easy to find this kind of product where you live?",
		},
	},
}

// part3Topics holds the abstract discussion question sets, indexed by topic.
var part3Topics = []topicSet{
	{name: "education", questions: []string{
		"How has education in your country changed in the last twenty years?",
		"Do you think universities should focus more on practical skills or academic knowledge?",
		"What role should technology play in the classroom?",
		"Should education be free for everyone? Why or why not?",
		"How important is lifelong learning in today's world?",
		"Do examinations accurately measure a student's ability?",
	}},
	{name: "society", questions: []string{
		"What are the biggest challenges facing communities in your country today?",
		"How do you think cities will change in the next fifty years?",
		"Is it the government's responsibility to reduce inequality?",
		"How has the role of the family changed in modern society?",
		"Do you think people are more or less connected to their neighbours than in the past?",
		"What can individuals do to improve their local community?",
	}},
	{name: "influence", questions: []string{
		"What qualities make someone a good role model?",
		"Do celebrities have too much influence on young people?",
		"How do the people around us shape our opinions?",
		"Is it better to be influenced by family or by friends?",
		"Can one person really change society?",
		"How has social media changed who influences us?",
	}},
	{name: "culture", questions: []string{
		"Why do you think traditions are important to societies?",
		"Is globalization making cultures more similar?",
		"Should governments spend money preserving historical buildings?",
		"How do festivals bring communities together?",
		"Do you think traditional celebrations will survive the next century?",
		"What can people learn from experiencing other cultures?",
	}},
	{name: "technology_change", questions: []string{
		"How has technology changed the way people work?",
		"Do you think artificial intelligence will create or destroy more jobs?",
		"Are people too dependent on their devices?",
		"How should society deal with the pace of technological change?",
		"What technological development has had the biggest impact on daily life?",
		"Will face-to-face communication become less important in the future?",
	}},
	{name: "consumerism", questions: []string{
		"Why do you think people buy things they do not need?",
		"How does advertising influence what people purchase?",
		"Is online shopping changing communities and town centres?",
		"Should people repair products rather than replace them?",
		"Do possessions make people happier?",
		"How can societies reduce waste from consumer goods?",
	}},
}

// cueCardThemes maps Part 2 cue-card topics to the Part 3 topic used to
// theme the discussion that follows.
var cueCardThemes = map[string]string{
	"Describe a subject you enjoyed studying at school or university.": "education",
	"Describe a piece of research or a project you worked on.": "education",
	"Describe a book that influenced the way you think.": "influence",
	"Describe a lecture or talk that you found memorable.": "education",
	"Describe a skill you learned that helps you in your studies.": "education",
	"Describe a person who has had a big influence on your life.": "influence",
	"Describe a place you like to visit in your free time.": "society",
	"Describe a memorable journey you have taken.": "culture",
	"Describe a celebration or festival that is important in your culture.": "culture",
	"Describe something you bought recently that you were happy with.": "consumerism",
}
