package domain

// MotivationalQuotes is shown after a relapse. Must stay non-empty.
var MotivationalQuotes = []string{
	"O sucesso não é linear. O que define você é a velocidade com que você se levanta agora.",
	"Dia 1. De novo. Mas dessa vez, você não começa do zero, começa da experiência.",
	"A dor da disciplina é menor que a dor do arrependimento. Bem-vindo de volta à luta.",
	"Não importa quantas vezes você cai, mas quantas vezes você se levanta.",
	"O passado é uma lição, não uma sentença de prisão. Foque no agora.",
}
