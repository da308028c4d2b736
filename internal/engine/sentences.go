package engine

import "github.com/verte-zerg/typist/internal/model"

var easySentences = []string{
	"The cat sat on the mat.",
	"I like to eat pizza.",
	"The sun is bright today.",
	"Dogs are good pets.",
	"She went to the store.",
	"We play games at home.",
	"The book is on the table.",
	"He likes to read books.",
	"The car is red and fast.",
	"They live in a big house.",
	"Water is good for you.",
	"The bird can fly high.",
	"I want to go home now.",
	"The tree has green leaves.",
	"She has a nice smile.",
}

var mediumSentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"A journey of a thousand miles begins with a single step.",
	"To be or not to be, that is the question.",
	"All that glitters is not gold.",
	"The early bird catches the worm.",
	"Actions speak louder than words.",
	"Better late than never.",
	"Don't count your chickens before they hatch.",
	"Every cloud has a silver lining.",
	"Fortune favors the bold.",
	"Good things come to those who wait.",
	"Haste makes waste.",
	"If at first you don't succeed, try, try again.",
	"Knowledge is power.",
	"Laughter is the best medicine.",
	"Make hay while the sun shines.",
	"No pain, no gain.",
	"Opportunity knocks but once.",
	"Practice makes perfect.",
	"Rome wasn't built in a day.",
}

var hardSentences = []string{
	"The implementation of polymorphism requires understanding inheritance hierarchies.",
	"Asynchronous programming paradigms utilize event-driven architectures effectively.",
	"Quantum entanglement demonstrates non-local correlations between particles.",
	"The algorithm's time complexity exhibits exponential growth characteristics.",
	"Microservices architecture facilitates scalable distributed system design.",
	"Cryptographic hash functions ensure data integrity and authenticity.",
	"Machine learning algorithms optimize parameters through gradient descent.",
	"Blockchain technology implements decentralized consensus mechanisms.",
	"Neuroplasticity enables synaptic reorganization throughout human development.",
	"Bioinformatics algorithms analyze genomic sequences for pattern recognition.",
	"Electromagnetic radiation propagates through vacuum at light speed.",
	"Thermodynamic equilibrium requires energy conservation across system boundaries.",
	"Pharmaceutical compounds undergo rigorous clinical trial protocols.",
	"Semiconductor fabrication utilizes photolithography for circuit patterning.",
	"Epidemiological studies investigate disease transmission patterns statistically.",
}

func defaultSentences() map[model.Difficulty][]string {
	return map[model.Difficulty][]string{
		model.Easy:   easySentences,
		model.Medium: mediumSentences,
		model.Hard:   hardSentences,
	}
}
