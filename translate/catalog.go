package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// spanish holds the es translations, keyed by en-US format.
var spanish = map[string]string{
	"division by zero":                  "división por cero",
	"operand missing":                   "falta el operando",
	"excessive arguments":               "demasiados argumentos",
	"step limit reached":                "límite de pasos alcanzado",
	".equ syntax":                       "sintaxis de .equ",
	".equ duplicated":                   ".equ duplicado",
	"label duplicated":                  "etiqueta duplicada",
	"label invalid":                     "etiqueta no válida",
	"directive invalid":                 "directiva no válida",
	"'%v' is not a number":              "'%v' no es un número",
	"$(%v) is not a valid expression":   "$(%v) no es una expresión válida",
	"instruction (%v) not supported":    "Instrucción (%v) no admitida.",
	"line %d %v":                        "línea %d %v",
	"line %d '%v' %v":                   "línea %d '%v' %v",
	"pc %d '%v' %v":                     "pc %d '%v' %v",
	"no program submitted":              "no se envió ningún programa",
	"unknown machine operation":         "operación de máquina desconocida",
	"program upload must be text/plain": "el programa subido debe ser text/plain",

	"memory address '%v' does not exist or is not initialized": "La dirección de memoria '%v' no existe / no está inicializada",
	"pc %d out of range of program length %d":                  "pc %d fuera del programa de longitud %d",
}

// languages registers the catalog before the printer is matched.
var languages = register()

func register() (tags []language.Tag) {
	tags = []language.Tag{language.AmericanEnglish, language.Spanish}

	for key, text := range spanish {
		// The en-US text is the key itself.
		_ = message.SetString(language.AmericanEnglish, key, key)
		_ = message.SetString(language.Spanish, key, text)
	}

	return
}

// Languages returns the languages messages are available in.
func Languages() []language.Tag {
	return languages
}
