package internal

import "time"

func defineGlobals(e *env, now func() time.Time) {
	e.define("clock", &nativeFn{
		name:       "clock",
		arityValue: 0,
		callFn: func(exec *exec, arguments []interface{}) (interface{}, error) {
			return float64(now().UnixNano()) / float64(time.Second), nil
		},
	})
}
