// Package ui contains the Bubble Tea program that paints the reminder popup.
//
// Message flow:
//   - Init batches the controller's Open call with the spinner tick. The
//     result arrives as an openedMsg: a missing record quits the program, a
//     load failure leaves an inert view showing only the error title, and a
//     loaded record renders the contact, title, description, time, and the
//     action buttons.
//   - Update routes every tea.Msg through a typed handler registry so each
//     message kind is handled by a focused function.
//   - Pressing a button disables it, shows "Processing...", and runs
//     Controller.Submit as a tea.Cmd. Success quits; failure swaps the loading
//     text for the action's error text and re-enables the button.
//
// Removing the stored record when the popup goes away is not done here: the
// caller invokes popup.Controller.Close after the program returns, whatever
// way it exited.
package ui
