package models

import "github.com/erdmap/erdmap/schema"

type Order struct {
	schema.Entity

