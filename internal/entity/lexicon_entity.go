package entity

type SemanticPair struct {
	Word1 string
	Word2 string
	Score float64
}
