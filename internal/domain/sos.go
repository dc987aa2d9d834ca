package domain

// BreathingPhase is one step of the guided breathing cycle.
type BreathingPhase struct {
	Instruction string
	Seconds     int
}

// BreathingCycle is the 4-4-4 cycle used during an urge.
var BreathingCycle = []BreathingPhase{
	{Instruction: "INSPIRE", Seconds: 4},
	{Instruction: "SEGURE", Seconds: 4},
	{Instruction: "EXPIRE", Seconds: 4},
}

// BreathingRounds is how many cycles the guide asks for, about a minute.
const BreathingRounds = 5

var CycleBreakers = []string{
	"Beba um copo grande de água gelada.",
	"Saia do ambiente onde você está agora.",
	"Faça 15 agachamentos ou flexões.",
	"Molhe o rosto e a nuca com água fria.",
}
