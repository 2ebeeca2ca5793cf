package custom

//typeprobe:expect has-len !has-cap
type Queue struct { // want `custom\.Queue: expected has-cap not to hold`
	items []string
}

func (q Queue) Len() int { return len(q.items) }

func (q Queue) Cap() int { return cap(q.items) }
