package edcore

import "os"

// fCommandState dispatches the second character of an F command. The flow
// commands jump within the current frame without consuming input themselves;
// they reuse the loop and conditional skip machinery.
type fCommandState struct{}

func (s *fCommandState) input(ip *Interp, c byte) (state, error) {
	if c == 0 {
		return nil, nil
	}
	switch upperByte(c) {
	case 'G':
		return ip.states.fgDir, nil
	case '<':
		if ip.beginExec() {
			if len(ip.loopStack) > ip.loopFP {
				ip.pc = ip.loopStack[len(ip.loopStack)-1].pc
			} else {
				ip.pc = 0
			}
		}
		return ip.states.start, nil
	case '>':
		if ip.beginExec() {
			// Skip to the loop end and let it run, so the iteration
			// terminates as if the skipped body had executed.
			ip.mode = ModeParseOnlyLoop
			ip.nestLevel = 1
			ip.loopSkipExec = true
		}
		return ip.states.start, nil
	case '\'':
		if ip.beginExec() {
			ip.mode = ModeParseOnlyCond
			ip.nestLevel = 1
			ip.skipElse = true
		}
		return ip.states.start, nil
	case '|':
		if ip.beginExec() {
			ip.mode = ModeParseOnlyCond
			ip.nestLevel = 1
			ip.skipElse = false
		}
		return ip.states.start, nil
	}
	return nil, newError(KindSyntax, "unknown command F%c", c)
}

// doneFG changes the working directory, which the $ register reports.
func doneFG(ip *Interp, dir string) (state, error) {
	ip.takeColon()
	if !ip.beginExec() {
		return ip.states.start, nil
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, newError(KindFile, "%v", err)
		}
		dir = home
	}
	old := Getwd()
	if err := os.Chdir(dir); err != nil {
		return nil, newError(KindFile, "%v", err)
	}
	if ip.log.Enabled && old != "" {
		ip.log.PushFunc(func() {
			if err := os.Chdir(old); err != nil {
				logger.Println("chdir rubout failed:", err)
			}
		})
	}
	return ip.states.start, nil
}
