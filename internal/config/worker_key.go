package config

type WorkerKeyStruct struct {
	JobsQueue  string
	EmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	JobsQueue:  "jobs_queue",
	EmailQueue: "email_queue",
}
