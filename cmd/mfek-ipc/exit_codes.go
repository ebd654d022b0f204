package main

const (
	exitCodeSuccess   = 0
	exitCodeUsage     = 1
	exitCodeOutOfDate = 2
	exitCodeNotFound  = 3
	exitCodeFailure   = 4
)
