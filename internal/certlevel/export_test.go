package certlevel

var ErrNumberTaken = errNumberTaken
